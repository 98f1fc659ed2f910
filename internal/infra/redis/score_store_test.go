package redis

import (
	"context"
	"testing"
	"time"

	"quick-sums/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestScoreStoreTopAcrossRounds(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewScoreStore(newClient(mr), nil)

	if err := store.SaveRound(ctx, sampleRound(
		domain.Player{Name: "Ana", Score: 1500},
		domain.Player{Name: "Luis", Score: 200},
	)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveRound(ctx, sampleRound(
		domain.Player{Name: "Eva", Score: 900},
		domain.Player{Name: "Tom", Score: 100},
	)); err != nil {
		t.Fatalf("save: %v", err)
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"Ana", "Eva", "Luis"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), top)
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("position %d: expected %s, got %+v", i, name, top)
		}
	}

	if n, _ := mr.ZMembers(hallKey); len(n) != 4 {
		t.Fatalf("expected 4 members in sorted set, got %d", len(n))
	}
}

func TestScoreStoreTopEmptyAndInvalid(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewScoreStore(newClient(mr), nil)
	top, err := store.Top(context.Background(), 5)
	if err != nil || len(top) != 0 {
		t.Fatalf("expected empty result, got %+v %v", top, err)
	}
	if _, err := store.Top(context.Background(), 0); err != domain.ErrInvalidLimit {
		t.Fatalf("expected invalid limit, got %v", err)
	}
}

func sampleRound(players ...domain.Player) domain.RoundResult {
	return domain.RoundResult{
		ID:        uuid.New(),
		PlayedAt:  time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
		Standings: players,
		Winner:    players[0],
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestScoreStoreKeepsRoundWinnerAheadOfTiedRunnerUp(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewScoreStore(newClient(mr), nil)

	older := sampleRound(domain.Player{Name: "C", Score: 300}, domain.Player{Name: "B", Score: 300})
	newer := sampleRound(domain.Player{Name: "D", Score: 300})
	newer.PlayedAt = older.PlayedAt.Add(time.Minute)
	for _, r := range []domain.RoundResult{newer, older} {
		if err := store.SaveRound(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	var got []string
	for _, e := range top {
		got = append(got, e.Name)
	}
	if len(got) != 3 || got[0] != "D" || got[1] != "C" || got[2] != "B" {
		t.Fatalf("expected D, C, B, got %v", got)
	}
}
