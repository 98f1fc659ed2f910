package memory

import (
	"context"
	"slices"
	"sync"

	"quick-sums/internal/domain"
)

// ScoreStore is an in-memory implementation of app.ScoreStore.
// Entries are kept in domain.CompareEntries order, the same order the Postgres store reads.
type ScoreStore struct {
	mu      sync.RWMutex
	entries []domain.HallOfFameEntry
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) SaveRound(_ context.Context, round domain.RoundResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range round.Entries() {
		i, _ := slices.BinarySearchFunc(s.entries, entry, domain.CompareEntries)
		s.entries = slices.Insert(s.entries, i, entry)
	}
	return nil
}

func (s *ScoreStore) Top(_ context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(limit, len(s.entries))
	return slices.Clone(s.entries[:n]), nil
}
