package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"quick-sums/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ScoreStore keeps the hall of fame in Redis.
// Scores are stored as:  ZADD quicksums:hall {score} {playedAtNanos}:{999-rank}:{roundID}
// Entries are stored as: HSET quicksums:entries {member} {json}
// ZREVRANGE returns equal scores in reverse lexical member order, which the
// fixed-width member turns into domain.CompareEntries order.
type ScoreStore struct {
	client *redis.Client
	logger *slog.Logger
}

const (
	hallKey    = "quicksums:hall"
	entriesKey = "quicksums:entries"
)

func NewScoreStore(client *redis.Client, logger *slog.Logger) *ScoreStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreStore{client: client, logger: logger}
}

func (s *ScoreStore) SaveRound(ctx context.Context, round domain.RoundResult) error {
	pipe := s.client.TxPipeline()
	for _, entry := range round.Entries() {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		member := memberKey(entry)
		pipe.ZAdd(ctx, hallKey, redis.Z{Score: float64(entry.Score), Member: member})
		pipe.HSet(ctx, entriesKey, member, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save round %s: %w", round.ID, err)
	}
	return nil
}

func (s *ScoreStore) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	members, err := s.client.ZRevRange(ctx, hallKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read hall of fame: %w", err)
	}
	if len(members) == 0 {
		return []domain.HallOfFameEntry{}, nil
	}

	raw, err := s.client.HMGet(ctx, entriesKey, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	entries := make([]domain.HallOfFameEntry, 0, len(raw))
	for i, value := range raw {
		str, ok := value.(string)
		if !ok {
			s.logger.Warn("hall of fame entry missing", slog.String("member", members[i]))
			continue
		}
		var entry domain.HallOfFameEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			s.logger.Warn("hall of fame entry unreadable", slog.String("member", members[i]), slog.Any("error", err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func memberKey(entry domain.HallOfFameEntry) string {
	return fmt.Sprintf("%020d:%03d:%s", entry.PlayedAt.UnixNano(), 999-entry.Rank, entry.RoundID)
}
