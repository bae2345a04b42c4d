package service

import (
	"context"

	"roundsmirror/internal/model"
	"roundsmirror/internal/roundsapi"
	"roundsmirror/internal/tokeninfo"
)

type RefreshServiceI interface {
	Refresh(ctx context.Context) error
}

type EarningsServiceI interface {
	Aggregate(ctx context.Context, fid int64) (*model.User, error)
}

// RoundRepository is the round mirror. RefreshService is its only writer.
type RoundRepository interface {
	LatestRound(ctx context.Context) (*model.Round, error)
	ReplaceRounds(ctx context.Context, rounds []*model.Round) error
	RoundsWonBy(ctx context.Context, fid int64) ([]*model.Round, error)
}

// UserRepository holds the derived user projections. EarningsService is
// its only writer.
type UserRepository interface {
	UpsertUser(ctx context.Context, user *model.User) error
}

// RoundSource is the upstream contest API.
type RoundSource interface {
	FetchRounds(ctx context.Context) ([]roundsapi.Round, error)
	FetchWinners(ctx context.Context, roundID string) ([]roundsapi.Winner, error)
}

// TokenResolver maps a token address to ticker and logo, falling back to
// a fixed placeholder instead of failing.
type TokenResolver interface {
	Resolve(ctx context.Context, address string) tokeninfo.Info
}
