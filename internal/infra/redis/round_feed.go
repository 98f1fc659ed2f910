package redis

import (
	"context"
	"fmt"

	"quick-sums/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RoundsChannel carries the ID of every recorded round.
const RoundsChannel = "quicksums:rounds"

// RoundFeed announces recorded rounds over Redis pub/sub so a running server
// can refresh its live leaderboard when a separate play process finishes.
type RoundFeed struct {
	client *redis.Client
}

func NewRoundFeed(client *redis.Client) *RoundFeed {
	return &RoundFeed{client: client}
}

func (f *RoundFeed) NotifyRound(ctx context.Context, round domain.RoundResult) error {
	if err := f.client.Publish(ctx, RoundsChannel, round.ID.String()).Err(); err != nil {
		return fmt.Errorf("publish round: %w", err)
	}
	return nil
}

// Watch calls fn with each announced round ID until ctx is done.
func (f *RoundFeed) Watch(ctx context.Context, fn func(ctx context.Context, roundID string)) error {
	sub := f.client.Subscribe(ctx, RoundsChannel)
	defer sub.Close()

	// Wait for confirmation that the subscription is active.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", RoundsChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(ctx, msg.Payload)
		}
	}
}
