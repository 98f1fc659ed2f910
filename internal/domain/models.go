package domain

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player is a finished participant and the score they reached in their turn.
// It is a value type: copies handed to a ranking list cannot be changed by the caller.
type Player struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (p Player) String() string {
	return fmt.Sprintf("%s - %d points", p.Name, p.Score)
}

// Outcome describes why a turn ended.
type Outcome string

const (
	OutcomeTimeout Outcome = "timeout"
	OutcomeEmpty   Outcome = "empty"
	OutcomeInvalid Outcome = "invalid"
	OutcomeWrong   Outcome = "wrong"
)

// TurnResult summarizes a single player's turn.
type TurnResult struct {
	Player  Player
	Seat    int
	Level   int // last level reached, starting at 1
	Correct int
	Outcome Outcome
}

// RoundResult is produced once all players have played.
type RoundResult struct {
	ID        uuid.UUID `json:"id"`
	PlayedAt  time.Time `json:"playedAt"`
	Standings []Player  `json:"standings"`
	Winner    Player    `json:"winner"`
}

// HallOfFameEntry is one player's score from one recorded round.
type HallOfFameEntry struct {
	RoundID  uuid.UUID `json:"roundId"`
	Rank     int       `json:"rank"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	PlayedAt time.Time `json:"playedAt"`
}

// Entries flattens a round into hall-of-fame rows, one per ranked player.
func (r RoundResult) Entries() []HallOfFameEntry {
	entries := make([]HallOfFameEntry, 0, len(r.Standings))
	for i, p := range r.Standings {
		entries = append(entries, HallOfFameEntry{
			RoundID:  r.ID,
			Rank:     i + 1,
			Name:     p.Name,
			Score:    p.Score,
			PlayedAt: r.PlayedAt,
		})
	}
	return entries
}

// CompareEntries orders the hall of fame: higher score first, then the more recent
// round, then the better in-round rank. Round ID (descending) settles the rest.
func CompareEntries(a, b HallOfFameEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := b.PlayedAt.Compare(a.PlayedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
		return c
	}
	return strings.Compare(b.RoundID.String(), a.RoundID.String())
}

// Leaderboard is a snapshot of the all-time best scores.
type Leaderboard struct {
	Entries   []HallOfFameEntry `json:"entries"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
