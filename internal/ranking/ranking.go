// Package ranking keeps finished players ordered by descending score.
package ranking

import (
	"fmt"
	"slices"
	"strings"

	"quick-sums/internal/domain"
)

// TopN is the number of entries a round keeps and displays.
const TopN = 5

// List is a sequence of players sorted non-increasing by score.
// The zero value is an empty list ready to use. It is not safe for concurrent use.
type List struct {
	entries []domain.Player
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// InsertSorted places p so the list stays sorted by descending score.
// A score equal to the current head's goes in front of it; otherwise p lands
// before the first entry (from the second onward) whose score is <= p.Score.
func (l *List) InsertSorted(p domain.Player) {
	if len(l.entries) == 0 {
		l.entries = append(l.entries, p)
		return
	}
	if p.Score >= l.entries[0].Score {
		l.entries = slices.Insert(l.entries, 0, p)
		return
	}

	i := 1
	for i < len(l.entries) && p.Score < l.entries[i].Score {
		i++
	}
	l.entries = slices.Insert(l.entries, i, p)
}

// KeepTop truncates the list to its first n entries.
func (l *List) KeepTop(n int) {
	if n < 0 {
		n = 0
	}
	if len(l.entries) <= n {
		return
	}
	clear(l.entries[n:])
	l.entries = l.entries[:n]
}

// KeepTop5 truncates the list to its first five entries.
func (l *List) KeepTop5() {
	l.KeepTop(TopN)
}

// DisplayTop5 renders a numbered listing of up to five entries.
func (l *List) DisplayTop5() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- FINAL RANKING (TOP %d) ---\n", TopN)
	if len(l.entries) == 0 {
		b.WriteString("No players registered.\n")
		return b.String()
	}
	for i, p := range l.entries {
		if i == TopN {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

// Winner returns the highest scoring player, or false if the list is empty.
func (l *List) Winner() (domain.Player, bool) {
	if len(l.entries) == 0 {
		return domain.Player{}, false
	}
	return l.entries[0], true
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the ordered entries.
func (l *List) Entries() []domain.Player {
	return slices.Clone(l.entries)
}
