package mocks

import (
	"context"

	"roundsmirror/internal/model"
	"roundsmirror/internal/roundsapi"
	"roundsmirror/internal/tokeninfo"

	"github.com/stretchr/testify/mock"
)

type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) LatestRound(ctx context.Context) (*model.Round, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Round), args.Error(1)
}

func (m *MockRoundRepository) ReplaceRounds(ctx context.Context, rounds []*model.Round) error {
	args := m.Called(ctx, rounds)
	return args.Error(0)
}

func (m *MockRoundRepository) RoundsWonBy(ctx context.Context, fid int64) ([]*model.Round, error) {
	args := m.Called(ctx, fid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Round), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockRoundSource struct {
	mock.Mock
}

func (m *MockRoundSource) FetchRounds(ctx context.Context) ([]roundsapi.Round, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roundsapi.Round), args.Error(1)
}

func (m *MockRoundSource) FetchWinners(ctx context.Context, roundID string) ([]roundsapi.Winner, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roundsapi.Winner), args.Error(1)
}

type MockRefreshService struct {
	mock.Mock
}

func (m *MockRefreshService) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTokenResolver struct {
	mock.Mock
}

func (m *MockTokenResolver) Resolve(ctx context.Context, address string) tokeninfo.Info {
	args := m.Called(ctx, address)
	return args.Get(0).(tokeninfo.Info)
}
