package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"roundsmirror/internal/model"
	"roundsmirror/internal/tokeninfo"
	"roundsmirror/pkg/logger"

	"go.uber.org/zap"
)

type EarningsService struct {
	rounds RoundRepository
	users  UserRepository
}

func NewEarningsService(rounds RoundRepository, users UserRepository) *EarningsService {
	return &EarningsService{
		rounds: rounds,
		users:  users,
	}
}

// Aggregate rebuilds the user's earnings record from the current round
// mirror and replaces the stored projection. A user with no winnings
// gets an empty record, not an error.
func (s *EarningsService) Aggregate(ctx context.Context, fid int64) (*model.User, error) {
	rounds, err := s.rounds.RoundsWonBy(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for fid %d: %w", fid, err)
	}

	user := &model.User{
		FarcasterID:        fid,
		RoundsParticipated: []int64{},
		Winnings:           []model.Winning{},
		TotalEarnings:      []model.Earning{},
	}

	totals := make(map[string]int)

	for _, round := range rounds {
		matched := false

		snapshot := *round
		snapshot.Winners = nil

		for _, winner := range round.Winners {
			if winner.Fid != fid {
				continue
			}
			matched = true

			user.Winnings = append(user.Winnings, model.Winning{
				Amount: winner.Amount,
				Round:  snapshot,
			})

			if math.IsNaN(winner.Amount) || math.IsInf(winner.Amount, 0) {
				continue
			}

			denomination := round.Denomination
			if denomination == "" {
				denomination = tokeninfo.UnknownSymbol
			}

			idx, ok := totals[denomination]
			if !ok {
				totals[denomination] = len(user.TotalEarnings)
				user.TotalEarnings = append(user.TotalEarnings, model.Earning{
					Denomination: denomination,
					Amount:       winner.Amount,
				})
				continue
			}
			user.TotalEarnings[idx].Amount += winner.Amount
		}

		if !matched {
			continue
		}

		id, err := strconv.ParseInt(round.RoundID, 10, 64)
		if err != nil {
			logger.Logger().Warn("non-numeric round id", zap.String("round_id", round.RoundID))
			continue
		}
		user.RoundsParticipated = append(user.RoundsParticipated, id)
	}

	sort.SliceStable(user.Winnings, func(i, j int) bool {
		return user.Winnings[i].Round.StartsAt.After(user.Winnings[j].Round.StartsAt)
	})

	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to upsert user %d: %w", fid, err)
	}

	return user, nil
}
