package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roundsmirror/internal/model"

	"github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

type roundRow struct {
	RoundID            string    `db:"round_id"`
	CommunityID        string    `db:"community_id"`
	Name               string    `db:"name"`
	Status             string    `db:"status"`
	Logo               string    `db:"logo"`
	TokenAddress       string    `db:"token_address"`
	Denomination       string    `db:"denomination"`
	StartsAt           time.Time `db:"starts_at"`
	CreatedAt          time.Time `db:"created_at"`
	AreWinnersReported bool      `db:"are_winners_reported"`
	Winners            []byte    `db:"winners"`
}

func (row *roundRow) toModel() (*model.Round, error) {
	round := &model.Round{
		RoundID:            row.RoundID,
		CommunityID:        row.CommunityID,
		Name:               row.Name,
		Status:             row.Status,
		Logo:               row.Logo,
		TokenAddress:       row.TokenAddress,
		Denomination:       row.Denomination,
		StartsAt:           row.StartsAt,
		CreatedAt:          row.CreatedAt,
		AreWinnersReported: row.AreWinnersReported,
	}

	if len(row.Winners) > 0 {
		if err := json.Unmarshal(row.Winners, &round.Winners); err != nil {
			return nil, fmt.Errorf("failed to decode winners for round %s: %w", row.RoundID, err)
		}
	}

	return round, nil
}

// ReplaceRounds swaps the whole mirror for the given set in a single
// transaction, so a concurrent reader sees either the old cache or the
// new one, never a half-written state.
func (r *Repository) ReplaceRounds(ctx context.Context, rounds []*model.Round) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Delete("rounds").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete rounds: %w", err)
		}

		for _, round := range rounds {
			if err := upsertRoundWithTx(ctx, tx, round); err != nil {
				return err
			}
		}

		return nil
	})
}

// upsertRoundWithTx writes a round keyed by round_id, replacing every
// field of an existing row. A duplicate round id within one refresh
// batch resolves last-write-wins instead of erroring.
func upsertRoundWithTx(ctx context.Context, tx *sqlx.Tx, round *model.Round) error {
	winners, err := json.Marshal(round.Winners)
	if err != nil {
		return fmt.Errorf("failed to encode winners for round %s: %w", round.RoundID, err)
	}

	query, args, err := squirrel.
		Insert("rounds").
		SetMap(map[string]interface{}{
			"round_id":             round.RoundID,
			"community_id":         round.CommunityID,
			"name":                 round.Name,
			"status":               round.Status,
			"logo":                 round.Logo,
			"token_address":        round.TokenAddress,
			"denomination":         round.Denomination,
			"starts_at":            round.StartsAt,
			"created_at":           round.CreatedAt,
			"are_winners_reported": round.AreWinnersReported,
			"winners":              winners,
		}).
		Suffix(`ON CONFLICT (round_id) DO UPDATE SET
			community_id = EXCLUDED.community_id,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			logo = EXCLUDED.logo,
			token_address = EXCLUDED.token_address,
			denomination = EXCLUDED.denomination,
			starts_at = EXCLUDED.starts_at,
			created_at = EXCLUDED.created_at,
			are_winners_reported = EXCLUDED.are_winners_reported,
			winners = EXCLUDED.winners`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build round upsert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert round %s: %w", round.RoundID, err)
	}

	return nil
}

// LatestRound returns the most recently written round, used by the
// staleness gate. ErrNotFound means the mirror is empty.
func (r *Repository) LatestRound(ctx context.Context) (*model.Round, error) {
	query, args, err := squirrel.
		Select("*").
		From("rounds").
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row roundRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel()
}

// RoundsWonBy returns every round whose winners list contains an entry
// for the given fid, via jsonb containment on the GIN-indexed column.
func (r *Repository) RoundsWonBy(ctx context.Context, fid int64) ([]*model.Round, error) {
	match, err := json.Marshal([]map[string]int64{{"fid": fid}})
	if err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Select("*").
		From("rounds").
		Where(squirrel.Expr("winners @> ?::jsonb", string(match))).
		OrderBy("starts_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rounds query: %w", err)
	}

	var rows []roundRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds by winner: %w", err)
	}

	rounds := make([]*model.Round, 0, len(rows))
	for i := range rows {
		round, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}
