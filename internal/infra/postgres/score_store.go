package postgres

import (
	"context"
	"fmt"

	"quick-sums/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreStore keeps the hall of fame in the round_scores table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) SaveRound(ctx context.Context, round domain.RoundResult) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		for _, entry := range round.Entries() {
			_, err := tx.Exec(ctx,
				`INSERT INTO round_scores (round_id, rank, name, score, played_at) VALUES ($1, $2, $3, $4, $5)`,
				entry.RoundID.String(), entry.Rank, entry.Name, entry.Score, entry.PlayedAt)
			if err != nil {
				return fmt.Errorf("insert score: %w", err)
			}
		}
		return nil
	})
}

func (s *ScoreStore) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT round_id::text, rank, name, score, played_at FROM round_scores
		 ORDER BY score DESC, played_at DESC, rank ASC, round_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query hall of fame: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HallOfFameEntry, 0, limit)
	for rows.Next() {
		var (
			entry   domain.HallOfFameEntry
			roundID string
		)
		if err := rows.Scan(&roundID, &entry.Rank, &entry.Name, &entry.Score, &entry.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan hall of fame: %w", err)
		}
		if entry.RoundID, err = uuid.Parse(roundID); err != nil {
			return nil, fmt.Errorf("parse round id: %w", err)
		}
		entry.PlayedAt = entry.PlayedAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
