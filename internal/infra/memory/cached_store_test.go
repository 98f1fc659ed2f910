package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"quick-sums/internal/domain"
)

type countingBackend struct {
	*ScoreStore
	calls int
}

func (b *countingBackend) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	b.calls++
	return b.ScoreStore.Top(ctx, limit)
}

func TestCachedStoreCachesTop(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{ScoreStore: NewScoreStore()}
	store := NewCachedStore(backend, time.Minute, nil)

	if _, err := store.Top(ctx, 5); err != nil {
		t.Fatalf("top: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("expected backend once, got %d", backend.calls)
	}

	if _, err := store.Top(ctx, 5); err != nil {
		t.Fatalf("top 2: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("expected cache hit, backend calls %d", backend.calls)
	}
}

func TestCachedStoreExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	backend := &countingBackend{ScoreStore: NewScoreStore()}
	store := NewCachedStore(backend, time.Minute, nil)
	store.clock = func() time.Time { return now }

	_, _ = store.Top(ctx, 5)
	now = now.Add(2 * time.Minute)
	_, _ = store.Top(ctx, 5)
	if backend.calls != 2 {
		t.Fatalf("expected reload after ttl, backend calls %d", backend.calls)
	}
}

func TestCachedStoreSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{ScoreStore: NewScoreStore()}
	store := NewCachedStore(backend, time.Minute, nil)

	top, _ := store.Top(ctx, 5)
	if len(top) != 0 {
		t.Fatalf("expected empty hall of fame, got %+v", top)
	}

	if err := store.SaveRound(ctx, sampleRound(domain.Player{Name: "Ana", Score: 500})); err != nil {
		t.Fatalf("save: %v", err)
	}
	top, err := store.Top(ctx, 5)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Ana" {
		t.Fatalf("expected fresh result after save, got %+v", top)
	}
	if backend.calls != 2 {
		t.Fatalf("expected reload after save, backend calls %d", backend.calls)
	}
}

// gatedBackend blocks its first Top call after reading, until release is closed.
type gatedBackend struct {
	*ScoreStore
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (b *gatedBackend) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	entries, err := b.ScoreStore.Top(ctx, limit)
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.reached)
		<-b.release
	}
	return entries, err
}

func TestCachedStoreInvalidateDiscardsInFlightFill(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{
		ScoreStore: NewScoreStore(),
		reached:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	store := NewCachedStore(backend, time.Minute, nil)

	stale := make(chan []domain.HallOfFameEntry, 1)
	go func() {
		entries, _ := store.Top(ctx, 10)
		stale <- entries
	}()
	<-backend.reached

	// a round lands in the backend while the first fill is still running
	if err := backend.ScoreStore.SaveRound(ctx, sampleRound(domain.Player{Name: "Ana", Score: 500})); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Invalidate()

	top, err := store.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top during fill: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Ana" {
		t.Fatalf("expected fresh result while old fill is blocked, got %+v", top)
	}

	close(backend.release)
	if got := <-stale; len(got) != 0 {
		t.Fatalf("expected the blocked fill to have read the empty table, got %+v", got)
	}

	top, err = store.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top after fill: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Ana" {
		t.Fatalf("expected fresh result after invalidate, got %+v", top)
	}
}
