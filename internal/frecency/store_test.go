package frecency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/kv"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(backend kv.Store) *Store {
	s := NewStore(backend, 30*24*time.Hour, quietLogger())
	s.SetClock(func() time.Time { return now })
	return s
}

func TestStore_LoadMissing(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(mem)

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(l) != 0 {
		t.Errorf("expected empty log, got %v", l)
	}
	if len(mem.Writes) != 0 {
		t.Errorf("missing history should not be written, got %d writes", len(mem.Writes))
	}
}

func TestStore_LoadPrunesAndWritesBack(t *testing.T) {
	mem := kv.NewMemory().Seed(kv.KeyHistory, `{
		"chrome": ["2026-03-14T11:00:00Z", "2026-01-01T00:00:00Z"],
		"gone":   ["2025-12-01T00:00:00Z"],
		"junk":   ["not a time"]
	}`)
	s := newTestStore(mem)

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(l) != 1 || len(l["chrome"]) != 1 {
		t.Fatalf("pruned log = %v, want only chrome with one timestamp", l)
	}

	writes := mem.WritesFor(kv.KeyHistory)
	if len(writes) != 1 {
		t.Fatalf("expected one write-back, got %d", len(writes))
	}
	if writes[0] != `{"chrome":["2026-03-14T11:00:00Z"]}` {
		t.Errorf("write-back = %s", writes[0])
	}
}

func TestStore_LoadTwiceIsIdempotent(t *testing.T) {
	mem := kv.NewMemory().Seed(kv.KeyHistory, `{"chrome":["2026-03-14T11:00:00.123456789Z","2025-01-01T00:00:00Z"],"notes":["2026-03-10T08:30:00Z"]}`)
	s := newTestStore(mem)
	ctx := context.Background()

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := Encode(first)
	b, _ := Encode(second)
	if string(a) != string(b) {
		t.Errorf("second load differs:\n first  %s\n second %s", a, b)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	mem := kv.NewMemory().Seed(kv.KeyHistory, `{"chrome": [`)
	s := newTestStore(mem)

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt history should not fail the caller: %v", err)
	}
	if len(l) != 0 {
		t.Errorf("expected empty log, got %v", l)
	}
}

func TestStore_LoadReadError(t *testing.T) {
	mem := kv.NewMemory()
	mem.GetErr = errors.New("io")
	l, err := newTestStore(mem).Load(context.Background())
	if err != nil || len(l) != 0 {
		t.Errorf("Load = %v, %v; want empty log and nil error", l, err)
	}
}

func TestStore_WriteBackFailure(t *testing.T) {
	mem := kv.NewMemory().Seed(kv.KeyHistory, `{"chrome":["2026-03-14T11:00:00Z"]}`)
	mem.SetErr = errors.New("read-only")
	s := newTestStore(mem)

	l, err := s.Load(context.Background())
	if !errs.IsPersist(err) {
		t.Errorf("expected persist error, got %v", err)
	}
	if len(l["chrome"]) != 1 {
		t.Errorf("log should still be usable, got %v", l)
	}
}

func TestStore_Reset(t *testing.T) {
	mem := kv.NewMemory().Seed(kv.KeyHistory, `{"chrome":["2026-03-14T11:00:00Z"]}`)
	s := newTestStore(mem)
	ctx := context.Background()

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	got, _, _ := mem.Get(ctx, kv.KeyHistory)
	if got != "{}" {
		t.Errorf("after reset = %q, want {}", got)
	}
}

func TestDecode(t *testing.T) {
	_, err := Decode([]byte(`[1,2,3]`))
	if !errs.IsParse(err) {
		t.Errorf("expected StoreParseError, got %v", err)
	}

	l, err := Decode([]byte(`{"a":["2026-03-14T11:00:00+02:00"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if !l["a"][0].Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("offset not honoured: %v", l["a"][0])
	}
}

func TestEncode_SkipsEmpty(t *testing.T) {
	data, err := Encode(Log{"a": nil, "b": {now}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"a"`) {
		t.Errorf("empty entries should be omitted: %s", data)
	}
}

func TestNewStore_DefaultRetention(t *testing.T) {
	s := NewStore(kv.NewMemory(), 0, nil)
	if s.Retention() != DefaultRetention {
		t.Errorf("Retention = %v, want %v", s.Retention(), DefaultRetention)
	}
}
