package frecency

import (
	"math"
	"sort"
	"time"
)

// Score calculates the frecency score for a list of timestamps.
// Each open contributes exp(-lambda * hoursSince / timeScale), so recent opens
// dominate and old ones fade towards zero. Future timestamps count as just now.
func Score(timestamps []time.Time, now time.Time, p Params) float64 {
	var total float64
	for _, ts := range timestamps {
		hours := now.Sub(ts).Hours()
		if hours < 0 {
			hours = 0
		}
		total += math.Exp(-p.Lambda * (hours / p.TimeScaleHours))
	}
	return total
}

// Score returns the frecency score for id, 0 when it has no history.
func (l Log) Score(id string, now time.Time, p Params) float64 {
	return Score(l[id], now, p)
}

// Prune drops timestamps at or before now-retention and ids left empty.
// The input is not modified.
func Prune(l Log, now time.Time, retention time.Duration) Log {
	cutoff := now.Add(-retention)
	out := make(Log, len(l))
	for id, ts := range l {
		var kept []time.Time
		for _, t := range ts {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			out[id] = kept
		}
	}
	return out
}

// Record returns a copy of l with now appended to id's timestamps.
func Record(l Log, id string, now time.Time) Log {
	out := l.Clone()
	out[id] = append(out[id], now)
	return out
}

// Forget returns a copy of l without id.
func Forget(l Log, id string) Log {
	out := l.Clone()
	delete(out, id)
	return out
}

// Ranked is an id with its score.
type Ranked struct {
	ID       string
	Score    float64
	Count    int
	LastUsed time.Time
}

// Top returns up to limit ids sorted by score descending, then id.
// A limit <= 0 returns everything.
func Top(l Log, now time.Time, p Params, limit int) []Ranked {
	out := make([]Ranked, 0, len(l))
	for id, ts := range l {
		r := Ranked{ID: id, Score: Score(ts, now, p), Count: len(ts)}
		for _, t := range ts {
			if t.After(r.LastUsed) {
				r.LastUsed = t
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
