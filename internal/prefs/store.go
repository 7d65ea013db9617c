package prefs

import (
	"context"
	"log/slog"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/kv"
)

// Store persists the document under kv.KeyPreferences.
type Store struct {
	kv  kv.Store
	log *slog.Logger
}

// NewStore creates a preference store on top of backend.
func NewStore(backend kv.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{kv: backend, log: log.With("component", "prefs")}
}

// Load reads the document and merges it with defaults. Missing or unreadable
// content yields Default(). A present document is written back in merged form
// so new fields are materialized; a non-nil error only reports that the
// write-back failed and the returned document is still usable.
func (s *Store) Load(ctx context.Context) (Document, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyPreferences)
	if err != nil {
		s.log.Warn("reading preferences failed, using defaults", "error", err)
		return Default(), nil
	}
	if !ok {
		return Default(), nil
	}

	doc, err := Decode([]byte(raw))
	if err != nil {
		s.log.Warn("preferences are corrupt, using defaults", "error", err)
		return Default(), nil
	}
	return doc, s.Save(ctx, doc)
}

// Save persists the whole document. Concurrent saves are last-write-wins.
func (s *Store) Save(ctx context.Context, d Document) error {
	data, err := Encode(d)
	if err != nil {
		return errs.Persist(kv.KeyPreferences, err)
	}
	if err := s.kv.Set(ctx, kv.KeyPreferences, string(data)); err != nil {
		return errs.Persist(kv.KeyPreferences, err)
	}
	return nil
}
