package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"roundsmirror/internal/model"
	"roundsmirror/internal/repository"
	"roundsmirror/internal/roundsapi"
	"roundsmirror/internal/tokeninfo"
	"roundsmirror/pkg/logger"

	"go.uber.org/zap"
)

type RefreshService struct {
	rounds RoundRepository
	source RoundSource
	tokens TokenResolver
	ttl    time.Duration

	mu sync.Mutex
}

func NewRefreshService(rounds RoundRepository, source RoundSource, tokens TokenResolver, ttl time.Duration) *RefreshService {
	return &RefreshService{
		rounds: rounds,
		source: source,
		tokens: tokens,
		ttl:    ttl,
	}
}

// Refresh re-mirrors the upstream rounds when the cache has gone stale.
// At most one refresh runs at a time; a call arriving while one is in
// flight returns immediately instead of queueing, since the next tick
// re-evaluates staleness anyway. Upstream failures are logged and
// swallowed; only store failures are returned.
func (s *RefreshService) Refresh(ctx context.Context) error {
	log := logger.Logger()

	if !s.mu.TryLock() {
		log.Debug("refresh already in progress, skipping")
		return nil
	}
	defer s.mu.Unlock()

	latest, err := s.rounds.LatestRound(ctx)
	switch {
	case err == nil:
		if time.Now().Before(latest.CreatedAt.Add(s.ttl)) {
			log.Debug("round cache still fresh",
				zap.Time("last_refresh", latest.CreatedAt),
				zap.Duration("ttl", s.ttl))
			return nil
		}
	case errors.Is(err, repository.ErrNotFound):
		// empty mirror, fetch everything
	default:
		return fmt.Errorf("failed to read latest round: %w", err)
	}

	upstream, err := s.source.FetchRounds(ctx)
	if err != nil {
		log.Error("failed to fetch rounds from upstream", zap.Error(err))
		return nil
	}

	log.Info("refreshing round cache", zap.Int("rounds", len(upstream)))

	mirrored := make([]*model.Round, 0, len(upstream))
	for _, ur := range upstream {
		if !ur.AreWinnersReported {
			continue
		}

		winners, err := s.source.FetchWinners(ctx, ur.ID)
		if err != nil {
			log.Warn("failed to fetch winners, skipping round",
				zap.String("round_id", ur.ID),
				zap.Error(err))
			continue
		}

		mirrored = append(mirrored, s.buildRound(ctx, ur, winners))
	}

	if err := s.rounds.ReplaceRounds(ctx, mirrored); err != nil {
		return fmt.Errorf("failed to replace round cache: %w", err)
	}

	log.Info("round cache refreshed", zap.Int("cached", len(mirrored)))
	return nil
}

func (s *RefreshService) buildRound(ctx context.Context, ur roundsapi.Round, winners []roundsapi.Winner) *model.Round {
	round := &model.Round{
		RoundID:            ur.ID,
		CommunityID:        ur.CommunityID,
		Name:               ur.Name,
		Status:             ur.Status,
		TokenAddress:       ur.Award.TokenAddress,
		StartsAt:           ur.StartsAt,
		CreatedAt:          time.Now().UTC(),
		AreWinnersReported: ur.AreWinnersReported,
		Winners:            make([]model.Winner, 0, len(winners)),
	}

	for _, w := range winners {
		amount := float64(w.Amount)
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		round.Winners = append(round.Winners, model.Winner{Fid: w.Fid, Amount: amount, Extra: w.Extra})
	}

	if ur.Award.TokenAddress != "" {
		info := s.tokens.Resolve(ctx, ur.Award.TokenAddress)
		round.Denomination = info.Symbol
		round.Logo = info.Logo
	} else {
		round.Denomination = ur.Award.AssetType
		round.Logo = tokeninfo.PlaceholderLogo
	}
	if round.Denomination == "" {
		round.Denomination = tokeninfo.UnknownSymbol
	}

	return round
}
