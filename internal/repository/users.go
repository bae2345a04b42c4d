package repository

import (
	"context"
	"fmt"
	"time"

	"roundsmirror/internal/model"

	"github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"
)

// UpsertUser replaces the whole derived record for a farcaster id. The
// three projection fields are written together so a round that left the
// mirror since the last aggregation also leaves the user record.
func (r *Repository) UpsertUser(ctx context.Context, user *model.User) error {
	winnings, err := json.Marshal(user.Winnings)
	if err != nil {
		return fmt.Errorf("failed to encode winnings for user %d: %w", user.FarcasterID, err)
	}

	earnings, err := json.Marshal(user.TotalEarnings)
	if err != nil {
		return fmt.Errorf("failed to encode earnings for user %d: %w", user.FarcasterID, err)
	}

	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"farcaster_id":        user.FarcasterID,
			"rounds_participated": user.RoundsParticipated,
			"winnings":            winnings,
			"total_earnings":      earnings,
			"updated_at":          time.Now().UTC(),
		}).
		Suffix(`ON CONFLICT (farcaster_id) DO UPDATE SET
			rounds_participated = EXCLUDED.rounds_participated,
			winnings = EXCLUDED.winnings,
			total_earnings = EXCLUDED.total_earnings,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}
