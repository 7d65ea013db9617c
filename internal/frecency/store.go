package frecency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/kv"
)

// Store persists the usage log under kv.KeyHistory.
type Store struct {
	kv        kv.Store
	log       *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// NewStore creates a history store. A non-positive retention uses DefaultRetention.
func NewStore(backend kv.Store, retention time.Duration, log *slog.Logger) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		kv:        backend,
		log:       log.With("component", "history"),
		retention: retention,
		now:       time.Now,
	}
}

// SetClock overrides the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Retention returns the configured retention window.
func (s *Store) Retention() time.Duration {
	return s.retention
}

// Load reads the log, prunes expired timestamps and writes the pruned log back.
// A missing or corrupt document yields an empty log. The returned log is always
// usable; a non-nil error only reports that the write-back failed.
func (s *Store) Load(ctx context.Context) (Log, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyHistory)
	if err != nil {
		s.log.Warn("reading history failed, starting empty", "error", err)
		return NewLog(), nil
	}
	if !ok {
		return NewLog(), nil
	}

	parsed, err := Decode([]byte(raw))
	if err != nil {
		s.log.Warn("history is corrupt, starting empty", "error", err)
		return NewLog(), nil
	}

	pruned := Prune(parsed, s.now(), s.retention)
	return pruned, s.Save(ctx, pruned)
}

// Save persists the whole log.
func (s *Store) Save(ctx context.Context, l Log) error {
	data, err := Encode(l)
	if err != nil {
		return errs.Persist(kv.KeyHistory, err)
	}
	if err := s.kv.Set(ctx, kv.KeyHistory, string(data)); err != nil {
		return errs.Persist(kv.KeyHistory, err)
	}
	return nil
}

// Reset clears the persisted log.
func (s *Store) Reset(ctx context.Context) error {
	return s.Save(ctx, NewLog())
}

// Decode parses {"id": ["RFC3339 timestamp", ...]}. Unparseable timestamps
// are dropped; malformed JSON is a StoreParseError.
func Decode(data []byte) (Log, error) {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &errs.StoreParseError{Key: kv.KeyHistory, Err: err}
	}
	out := make(Log, len(raw))
	for id, stamps := range raw {
		var ts []time.Time
		for _, s := range stamps {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				continue
			}
			ts = append(ts, t)
		}
		if len(ts) > 0 {
			out[id] = ts
		}
	}
	return out, nil
}

// Encode renders the log with UTC RFC3339 timestamps.
func Encode(l Log) ([]byte, error) {
	raw := make(map[string][]string, len(l))
	for id, ts := range l {
		if len(ts) == 0 {
			continue
		}
		stamps := make([]string, len(ts))
		for i, t := range ts {
			stamps[i] = t.UTC().Format(time.RFC3339Nano)
		}
		raw[id] = stamps
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return data, nil
}
