package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quick-sums/internal/domain"
	"quick-sums/internal/metrics"
)

// ScoreStore abstracts where finished rounds are kept (in-memory, Redis, Postgres).
type ScoreStore interface {
	SaveRound(ctx context.Context, round domain.RoundResult) error
	Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error)
}

// Notifier tells other processes that a round was recorded.
type Notifier interface {
	NotifyRound(ctx context.Context, round domain.RoundResult) error
}

// DefaultSnapshotSize is the number of entries pushed to live subscribers.
const DefaultSnapshotSize = 10

// HallOfFame records rounds and fans leaderboard snapshots out to subscribers.
type HallOfFame struct {
	store    ScoreStore
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	size     int

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

// NewHallOfFame wires the service. notifier and m may be nil.
func NewHallOfFame(store ScoreStore, notifier Notifier, m *metrics.Metrics, logger *slog.Logger) *HallOfFame {
	if logger == nil {
		logger = slog.Default()
	}
	return &HallOfFame{
		store:       store,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
		size:        DefaultSnapshotSize,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// RecordRound saves the round, notifies other processes and pushes a fresh snapshot.
func (h *HallOfFame) RecordRound(ctx context.Context, round domain.RoundResult) error {
	if err := h.store.SaveRound(ctx, round); err != nil {
		h.metrics.RecordFailed()
		return err
	}
	h.metrics.RoundRecorded()

	if h.notifier != nil {
		if err := h.notifier.NotifyRound(ctx, round); err != nil {
			h.logger.Warn("round notification failed", slog.String("round_id", round.ID.String()), slog.Any("error", err))
		}
	}
	if h.hasSubscribers() {
		return h.Publish(ctx)
	}
	return nil
}

// Top returns the best limit scores ever recorded.
func (h *HallOfFame) Top(ctx context.Context, limit int) (domain.Leaderboard, error) {
	if limit < 1 {
		return domain.Leaderboard{}, domain.ErrInvalidLimit
	}
	entries, err := h.store.Top(ctx, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if entries == nil {
		entries = []domain.HallOfFameEntry{}
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: h.now().UTC()}, nil
}

// Publish reads the current snapshot and sends it to every subscriber.
func (h *HallOfFame) Publish(ctx context.Context) error {
	lb, err := h.Top(ctx, h.size)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(lb)
	return nil
}

// Subscribe returns a channel that receives leaderboard snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *HallOfFame) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	// The snapshot is read under h.mu so a Publish racing with us is delivered
	// after it instead of being lost.
	h.mu.Lock()
	initial, err := h.Top(ctx, h.size)
	if err != nil {
		h.mu.Unlock()
		return nil, nil, err
	}
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	h.metrics.SubscriberAdded()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
			h.metrics.SubscriberRemoved()
		}
	}
	return ch, cancel, nil
}

func (h *HallOfFame) hasSubscribers() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers) > 0
}

func (h *HallOfFame) broadcastLocked(lb domain.Leaderboard) {
	for ch := range h.subscribers {
		select {
		case ch <- lb:
		default:
			// slow subscriber: drop the stale snapshot in favour of the new one
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
