package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quick-sums/internal/app"
	"quick-sums/internal/domain"
	"quick-sums/internal/infra/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func round(players ...domain.Player) domain.RoundResult {
	return domain.RoundResult{
		ID:        uuid.New(),
		PlayedAt:  time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC),
		Standings: players,
		Winner:    players[0],
	}
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) NotifyRound(context.Context, domain.RoundResult) error {
	n.calls++
	return nil
}

type failingStore struct{}

func (failingStore) SaveRound(context.Context, domain.RoundResult) error {
	return errors.New("unavailable")
}

func (failingStore) Top(context.Context, int) ([]domain.HallOfFameEntry, error) {
	return nil, errors.New("unavailable")
}

func TestHallOfFameRecordAndTop(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	hall := app.NewHallOfFame(memory.NewScoreStore(), notifier, nil, nil)

	require.NoError(t, hall.RecordRound(ctx, round(
		domain.Player{Name: "Ana", Score: 500},
		domain.Player{Name: "Tom", Score: 100},
	)))
	assert.Equal(t, 1, notifier.calls)

	lb, err := hall.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "Ana", lb.Entries[0].Name)
	assert.Equal(t, 1, lb.Entries[0].Rank)

	_, err = hall.Top(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestHallOfFameSubscribersReceiveUpdates(t *testing.T) {
	ctx := context.Background()
	hall := app.NewHallOfFame(memory.NewScoreStore(), nil, nil, nil)

	ch, cancel, err := hall.Subscribe(ctx)
	require.NoError(t, err)

	initial := <-ch
	assert.Empty(t, initial.Entries)

	require.NoError(t, hall.RecordRound(ctx, round(domain.Player{Name: "Eva", Score: 900})))
	update := <-ch
	require.Len(t, update.Entries, 1)
	assert.Equal(t, 900, update.Entries[0].Score)

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")
	cancel()
}

func TestHallOfFameSlowSubscriberGetsLatest(t *testing.T) {
	ctx := context.Background()
	hall := app.NewHallOfFame(memory.NewScoreStore(), nil, nil, nil)

	ch, cancel, err := hall.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	for i := 1; i <= 20; i++ {
		require.NoError(t, hall.RecordRound(ctx, round(domain.Player{Name: "p", Score: i})))
	}

	var last domain.Leaderboard
	for len(ch) > 0 {
		last = <-ch
	}
	require.NotEmpty(t, last.Entries)
	assert.Equal(t, 20, last.Entries[0].Score)
}

func TestHallOfFameStoreFailure(t *testing.T) {
	hall := app.NewHallOfFame(failingStore{}, nil, nil, nil)
	assert.Error(t, hall.RecordRound(context.Background(), round(domain.Player{Name: "a", Score: 1})))

	_, _, err := hall.Subscribe(context.Background())
	assert.Error(t, err)
}

// racingStore records a round and starts a Publish while the first Top call is in flight.
type racingStore struct {
	*memory.ScoreStore
	hall      *app.HallOfFame
	calls     int
	published chan struct{}
}

func (s *racingStore) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	entries, err := s.ScoreStore.Top(ctx, limit)
	s.calls++
	switch s.calls {
	case 1:
		if err := s.ScoreStore.SaveRound(ctx, round(domain.Player{Name: "Eva", Score: 900})); err != nil {
			return nil, err
		}
		go func() { _ = s.hall.Publish(ctx) }()
		// wait until the concurrent Publish has read its snapshot
		<-s.published
	case 2:
		close(s.published)
	}
	return entries, err
}

func TestHallOfFameSubscribeDoesNotMissConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{ScoreStore: memory.NewScoreStore(), published: make(chan struct{})}
	hall := app.NewHallOfFame(store, nil, nil, nil)
	store.hall = hall

	ch, cancel, err := hall.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	initial := <-ch
	assert.Empty(t, initial.Entries)

	select {
	case update := <-ch:
		require.Len(t, update.Entries, 1)
		assert.Equal(t, "Eva", update.Entries[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never saw the concurrent publish")
	}
}
