// Package session owns the in-memory preference and usage documents for one
// launcher run and serializes every mutation that writes them back.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kyleking/lazylaunch/internal/frecency"
	"github.com/kyleking/lazylaunch/internal/kv"
	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/rank"
	"github.com/kyleking/lazylaunch/internal/relevance"
)

// Options configures Open.
type Options struct {
	Backend   kv.Store
	Catalog   []openable.Openable
	Oracle    openable.RunningOracle
	Params    frecency.Params
	Scorer    relevance.Scorer
	Retention time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Session is the single owner of both documents. The preference document and
// the usage log each have their own lock, so a pin and a recorded open never
// block or overwrite one another.
type Session struct {
	prefStore *prefs.Store
	histStore *frecency.Store
	log       *slog.Logger
	now       func() time.Time

	apps   []openable.Openable
	oracle openable.RunningOracle
	params frecency.Params
	scorer relevance.Scorer

	prefsMu sync.Mutex
	doc     prefs.Document

	histMu sync.Mutex
	usage  frecency.Log
	opened map[string]bool
}

// Open loads both documents concurrently and returns a ready session.
// Failed write-backs during load are logged; the loaded documents are used anyway.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Backend == nil {
		return nil, errors.New("session: no storage backend")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if _, err := relevance.New(opts.Scorer.Threshold); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Oracle == nil {
		opts.Oracle = openable.NoneRunning
	}

	s := &Session{
		prefStore: prefs.NewStore(opts.Backend, opts.Logger),
		histStore: frecency.NewStore(opts.Backend, opts.Retention, opts.Logger),
		log:       opts.Logger.With("component", "session"),
		now:       opts.Now,
		apps:      appsOnly(opts.Catalog),
		oracle:    opts.Oracle,
		params:    opts.Params,
		scorer:    opts.Scorer,
		opened:    make(map[string]bool),
	}
	s.histStore.SetClock(opts.Now)

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	if doc, changed := fillIconDefaults(s.doc, s.candidatesLocked()); changed {
		s.doc = doc
		if err := s.prefStore.Save(ctx, doc); err != nil {
			s.log.Error("saving icon defaults failed", "error", err)
		}
	}
	return s, nil
}

func appsOnly(items []openable.Openable) []openable.Openable {
	out := make([]openable.Openable, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		it.Kind = openable.KindApp
		out = append(out, it)
	}
	return out
}

// load reads both documents in parallel, each under its own lock.
func (s *Session) load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.prefsMu.Lock()
		defer s.prefsMu.Unlock()
		doc, err := s.prefStore.Load(gctx)
		if err != nil {
			s.log.Warn("preferences write-back failed", "error", err)
		}
		s.doc = doc
		return gctx.Err()
	})
	g.Go(func() error {
		s.histMu.Lock()
		defer s.histMu.Unlock()
		usage, err := s.histStore.Load(gctx)
		if err != nil {
			s.log.Warn("history write-back failed", "error", err)
		}
		s.usage = usage
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	return nil
}

// Reload re-reads both documents, replacing the in-memory copies.
func (s *Session) Reload(ctx context.Context) error {
	return s.load(ctx)
}

func fillIconDefaults(doc prefs.Document, items []openable.Openable) (prefs.Document, bool) {
	changed := false
	for _, it := range items {
		if it.Icon == "" {
			continue
		}
		if _, ok := doc.IconOverrides[it.ID]; ok {
			continue
		}
		doc = doc.SetDefaultIcon(it.ID, it.Icon)
		changed = true
	}
	return doc, changed
}

// candidatesLocked returns apps followed by stored websites. Caller holds prefsMu.
func (s *Session) candidatesLocked() []openable.Openable {
	out := make([]openable.Openable, 0, len(s.apps)+len(s.doc.Websites))
	out = append(out, s.apps...)
	return append(out, s.doc.Websites...)
}

func (s *Session) knownLocked(id string) bool {
	for _, it := range s.apps {
		if it.ID == id {
			return true
		}
	}
	_, ok := s.doc.Website(id)
	return ok
}

// Items returns every candidate with running state resolved.
func (s *Session) Items() []openable.Openable {
	_, items, _ := s.snapshot()
	return items
}

// snapshot returns the document, the candidates resolved against that same
// document and the usage log, each captured once.
func (s *Session) snapshot() (prefs.Document, []openable.Openable, frecency.Log) {
	s.prefsMu.Lock()
	doc := s.doc.Clone()
	items := s.candidatesLocked()
	s.prefsMu.Unlock()

	items = openable.Resolve(items, s.oracle, doc.SkipsRunningCheck)

	s.histMu.Lock()
	defer s.histMu.Unlock()
	for i := range items {
		if items[i].Kind == openable.KindApp && s.opened[items[i].ID] && !doc.SkipsRunningCheck(items[i].ID) {
			items[i].Running = true
		}
	}
	return doc, items, s.usage.Clone()
}

// Item looks up one candidate by id.
func (s *Session) Item(id string) (openable.Openable, bool) {
	for _, it := range s.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return openable.Openable{}, false
}

// Prefs returns a copy of the current preference document.
func (s *Session) Prefs() prefs.Document {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	return s.doc.Clone()
}

// History returns a copy of the current usage log.
func (s *Session) History() frecency.Log {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	return s.usage.Clone()
}

// Params returns the frecency tuning in use.
func (s *Session) Params() frecency.Params {
	return s.params
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// Rank orders every candidate for query using the stored sort mode.
func (s *Session) Rank(query string) rank.Partitions {
	doc, items, history := s.snapshot()
	return rank.Rank(rank.Input{
		Items:    items,
		Prefs:    doc,
		History:  history,
		Query:    query,
		SortMode: doc.SortMode,
		Params:   s.params,
		Scorer:   s.scorer,
		Now:      s.now(),
	})
}

// mutatePrefs applies fn under the preference lock and persists the result.
// A non-empty id that is not a candidate makes the call a no-op. The new
// document is kept in memory even when saving fails.
func (s *Session) mutatePrefs(ctx context.Context, id string, fn func(prefs.Document) prefs.Document) (bool, error) {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	if id != "" && !s.knownLocked(id) {
		s.log.Debug("ignoring change for unknown item", "id", id)
		return false, nil
	}
	s.doc = fn(s.doc)
	if err := s.prefStore.Save(ctx, s.doc); err != nil {
		s.log.Error("saving preferences failed", "error", err)
		return true, err
	}
	return true, nil
}

func (s *Session) toggle(ctx context.Context, f prefs.Field, id string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.Toggle(f, id)
	})
}

// TogglePin pins or unpins id.
func (s *Session) TogglePin(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, prefs.FieldPinned, id)
}

// ToggleHidden hides or unhides id.
func (s *Session) ToggleHidden(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, prefs.FieldHidden, id)
}

// ToggleRunningCheck stops or resumes consulting the running oracle for id.
func (s *Session) ToggleRunningCheck(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, prefs.FieldItemsWithoutRunningCheck, id)
}

func (s *Session) toggleFlag(ctx context.Context, f prefs.Flag) error {
	_, err := s.mutatePrefs(ctx, "", func(d prefs.Document) prefs.Document {
		return d.ToggleFlag(f)
	})
	return err
}

// TogglePrioritizeRunning flips the running-first override.
func (s *Session) TogglePrioritizeRunning(ctx context.Context) error {
	return s.toggleFlag(ctx, prefs.FlagPrioritizeRunning)
}

// ToggleShowHidden flips whether hidden items are listed.
func (s *Session) ToggleShowHidden(ctx context.Context) error {
	return s.toggleFlag(ctx, prefs.FlagShowHidden)
}

// Rename sets a custom name. A blank name clears it.
func (s *Session) Rename(ctx context.Context, id, name string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.SetCustomName(id, name)
	})
}

// ClearName removes the custom name for id.
func (s *Session) ClearName(ctx context.Context, id string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.ClearCustomName(id)
	})
}

// SetIcon sets a custom icon for id.
func (s *Session) SetIcon(ctx context.Context, id string, icon openable.IconRef) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.SetIconOverride(id, &icon)
	})
}

// ClearIcon drops the custom icon for id, keeping the cached default.
func (s *Session) ClearIcon(ctx context.Context, id string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.SetIconOverride(id, nil)
	})
}

// ClearIconCache empties every icon override.
func (s *Session) ClearIconCache(ctx context.Context) error {
	_, err := s.mutatePrefs(ctx, "", prefs.Document.ClearIconCache)
	return err
}

// SetSortMode changes the stored ordering.
func (s *Session) SetSortMode(ctx context.Context, m prefs.SortMode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown sort mode %q", m)
	}
	_, err := s.mutatePrefs(ctx, "", func(d prefs.Document) prefs.Document {
		return d.SetSortMode(m)
	})
	return err
}

// AddWebsite stores w, replacing a website with the same id.
func (s *Session) AddWebsite(ctx context.Context, w openable.Openable) error {
	if w.ID == "" {
		return errors.New("website id is required")
	}
	_, err := s.mutatePrefs(ctx, "", func(d prefs.Document) prefs.Document {
		d = d.AddWebsite(w)
		if w.Icon != "" {
			d = d.SetDefaultIcon(w.ID, w.Icon)
		}
		return d
	})
	return err
}

// RemoveWebsite deletes a stored website along with its preferences and usage.
// Ids that are not stored websites are ignored.
func (s *Session) RemoveWebsite(ctx context.Context, id string) (bool, error) {
	s.prefsMu.Lock()
	if _, ok := s.doc.Website(id); !ok {
		s.prefsMu.Unlock()
		return false, nil
	}
	s.doc = s.doc.RemoveWebsite(id)
	prefErr := s.prefStore.Save(ctx, s.doc)
	s.prefsMu.Unlock()
	if prefErr != nil {
		s.log.Error("saving preferences failed", "error", prefErr)
	}

	s.histMu.Lock()
	defer s.histMu.Unlock()
	var histErr error
	if _, ok := s.usage[id]; ok {
		s.usage = frecency.Forget(s.usage, id)
		if histErr = s.histStore.Save(ctx, s.usage); histErr != nil {
			s.log.Error("saving history failed", "error", histErr)
		}
	}
	return true, errors.Join(prefErr, histErr)
}

// AddTag attaches tag to id.
func (s *Session) AddTag(ctx context.Context, id string, tag openable.Tag) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.AddTag(id, tag)
	})
}

// RemoveTag detaches tagID from id.
func (s *Session) RemoveTag(ctx context.Context, id, tagID string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.RemoveTag(id, tagID)
	})
}

// SetQuickCommand binds a shortcut to id.
func (s *Session) SetQuickCommand(ctx context.Context, id string, qc prefs.QuickCommand) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.SetQuickCommand(id, qc)
	})
}

// ClearQuickCommand removes the shortcut bound to id.
func (s *Session) ClearQuickCommand(ctx context.Context, id string) (bool, error) {
	return s.mutatePrefs(ctx, id, func(d prefs.Document) prefs.Document {
		return d.ClearQuickCommand(id)
	})
}

// RecordUsage appends an open of id at the current time and marks it running.
func (s *Session) RecordUsage(ctx context.Context, id string) (bool, error) {
	s.prefsMu.Lock()
	known := s.knownLocked(id)
	s.prefsMu.Unlock()
	if !known {
		s.log.Debug("ignoring usage for unknown item", "id", id)
		return false, nil
	}

	s.histMu.Lock()
	defer s.histMu.Unlock()
	s.usage = frecency.Record(s.usage, id, s.now())
	s.opened[id] = true
	if err := s.histStore.Save(ctx, s.usage); err != nil {
		s.log.Error("saving history failed", "error", err)
		return true, err
	}
	s.log.Debug("recorded usage", "id", id, "opens", len(s.usage[id]))
	return true, nil
}

// ResetHistory clears every recorded open.
func (s *Session) ResetHistory(ctx context.Context) error {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	s.usage = frecency.NewLog()
	if err := s.histStore.Reset(ctx); err != nil {
		s.log.Error("resetting history failed", "error", err)
		return err
	}
	return nil
}
