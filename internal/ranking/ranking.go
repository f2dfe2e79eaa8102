// Package ranking derives personal bests and the leaderboard from a store's
// run list. Nothing here caches: every call recomputes from current data,
// trading a linear scan for zero invalidation bugs. Run counts are personal
// scale, so that trade is cheap.
package ranking

import (
	"sort"

	"github.com/pacedog/pacedog/internal/store"
)

// Entry pairs a dog with its best run for leaderboard display.
type Entry struct {
	Dog     store.Dog
	BestRun store.Run
}

// BestRun returns the run with the strictly greatest stored speed for the
// dog. Ties resolve to the earliest-created run (chronological seq order).
// The second return is false when the dog has no runs.
func BestRun(s *store.Store, dogID string) (store.Run, bool) {
	var best store.Run
	found := false
	for _, r := range s.RunsChronological() {
		if r.DogID != dogID {
			continue
		}
		if !found || r.SpeedKmH > best.SpeedKmH {
			best = r
			found = true
		}
	}
	return best, found
}

// Leaderboard returns one entry per dog with at least one run, sorted
// descending by best speed. Dogs without runs are excluded entirely.
func Leaderboard(s *store.Store) []Entry {
	entries := make([]Entry, 0, len(s.Dogs))
	for _, d := range s.Dogs {
		best, ok := BestRun(s, d.ID)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Dog: d, BestRun: best})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestRun.SpeedKmH > entries[j].BestRun.SpeedKmH
	})
	return entries
}
