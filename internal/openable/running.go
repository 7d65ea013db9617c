package openable

import "strings"

// RunningOracle answers whether an application with the given name is running.
// Process inspection lives outside the core; this is the seam it plugs into.
type RunningOracle interface {
	IsRunning(name string) bool
}

// RunningSet is a RunningOracle backed by a fixed set of application names.
type RunningSet map[string]struct{}

// NewRunningSet builds a set from names, ignoring blanks.
func NewRunningSet(names ...string) RunningSet {
	s := make(RunningSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// IsRunning implements RunningOracle.
func (s RunningSet) IsRunning(name string) bool {
	_, ok := s[name]
	return ok
}

// NoneRunning reports every application as stopped.
var NoneRunning RunningOracle = RunningSet(nil)

// Resolve returns copies of items with Running recomputed from oracle.
// Apps whose id is skipped never report running; websites never do.
func Resolve(items []Openable, oracle RunningOracle, skip func(id string) bool) []Openable {
	if oracle == nil {
		oracle = NoneRunning
	}
	out := make([]Openable, len(items))
	for i, it := range items {
		it.Running = it.Kind == KindApp && oracle.IsRunning(it.Name) && (skip == nil || !skip(it.ID))
		out[i] = it
	}
	return out
}
