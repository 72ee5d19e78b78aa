package engine

import "slices"

// Leaderboards keeps the ranked history of each mode
type Leaderboards struct {
	rows map[GameMode][]LeaderboardEntry
}

// NewLeaderboards creates empty leaderboards
func NewLeaderboards() *Leaderboards {
	return &Leaderboards{rows: make(map[GameMode][]LeaderboardEntry)}
}

// Submit appends an entry and re-ranks its mode, keeping insertion order on ties
func (l *Leaderboards) Submit(entry LeaderboardEntry) {
	bucket := append(l.rows[entry.Mode], entry)
	slices.SortStableFunc(bucket, PolicyFor(entry.Mode).Compare)
	l.rows[entry.Mode] = bucket
}

// Rows returns a copy of the ranked entries of a mode
func (l *Leaderboards) Rows(mode GameMode) []LeaderboardEntry {
	rows := l.rows[mode]
	if len(rows) == 0 {
		return []LeaderboardEntry{}
	}
	return slices.Clone(rows)
}

// All returns every entry, grouped by mode in menu order
func (l *Leaderboards) All() []LeaderboardEntry {
	var all []LeaderboardEntry
	for _, mode := range Modes {
		all = append(all, l.rows[mode]...)
	}
	return all
}
