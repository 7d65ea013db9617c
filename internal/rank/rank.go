// Package rank partitions and orders openable items for display.
package rank

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/kyleking/lazylaunch/internal/frecency"
	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/relevance"
)

const (
	frecencyWeight  = 0.8
	relevanceWeight = 0.2
)

// Input is everything one ranking pass reads.
type Input struct {
	Items    []openable.Openable
	Prefs    prefs.Document
	History  frecency.Log
	Query    string
	SortMode prefs.SortMode
	Params   frecency.Params
	Scorer   relevance.Scorer
	Now      time.Time
}

// Entry is a ranked item with the scores that placed it.
type Entry struct {
	Item        openable.Openable
	DisplayName string
	Frecency    float64
	Relevance   relevance.Result
}

// Partitions are the three display buckets.
type Partitions struct {
	Pinned  []Entry
	Regular []Entry
	Hidden  []Entry
}

// Len counts entries across all partitions.
func (p Partitions) Len() int {
	return len(p.Pinned) + len(p.Regular) + len(p.Hidden)
}

// All returns pinned, regular, then hidden entries.
func (p Partitions) All() []Entry {
	out := make([]Entry, 0, p.Len())
	out = append(out, p.Pinned...)
	out = append(out, p.Regular...)
	return append(out, p.Hidden...)
}

// Rank scores every item once, drops those failing the query, and sorts each
// partition. A pinned item that is also hidden is shown as pinned. Hidden
// items appear only when the document's ShowHidden is set.
func Rank(in Input) Partitions {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	p := Partitions{Pinned: []Entry{}, Regular: []Entry{}, Hidden: []Entry{}}
	for _, it := range in.Items {
		custom := in.Prefs.CustomName(it.ID)
		rel := in.Scorer.Match(in.Query, it.Name, custom)
		if !rel.Passes {
			continue
		}
		e := Entry{
			Item:        it,
			DisplayName: in.Prefs.DisplayName(it),
			Frecency:    in.History.Score(it.ID, now, in.Params),
			Relevance:   rel,
		}
		switch {
		case in.Prefs.IsPinned(it.ID):
			p.Pinned = append(p.Pinned, e)
		case in.Prefs.IsHidden(it.ID):
			if in.Prefs.ShowHidden {
				p.Hidden = append(p.Hidden, e)
			}
		default:
			p.Regular = append(p.Regular, e)
		}
	}

	sortEntries := func(es []Entry) {
		slices.SortFunc(es, func(a, b Entry) int {
			return Compare(a, b, in.SortMode, in.Prefs.PrioritizeRunningFirst)
		})
	}
	sortEntries(p.Pinned)
	sortEntries(p.Regular)
	sortEntries(p.Hidden)
	return p
}

// Compare orders a before b when it returns a negative number.
// Running items lead when prioritizeRunning is set. In frecency mode the
// weighted frecency and relevance difference decides next. Remaining ties
// fall to the item name, then its id, so distinct items never compare equal.
func Compare(a, b Entry, mode prefs.SortMode, prioritizeRunning bool) int {
	if prioritizeRunning && a.Item.Running != b.Item.Running {
		if a.Item.Running {
			return -1
		}
		return 1
	}

	if mode == prefs.SortFrecency {
		composite := frecencyWeight*(b.Frecency-a.Frecency) + relevanceWeight*(b.Relevance.Score-a.Relevance.Score)
		if composite < 0 {
			return -1
		}
		if composite > 0 {
			return 1
		}
	}

	return tieBreak(a.Item, b.Item)
}

func tieBreak(a, b openable.Openable) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
}
