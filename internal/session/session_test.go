package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/frecency"
	"github.com/kyleking/lazylaunch/internal/kv"
	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/relevance"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func catalog() []openable.Openable {
	return []openable.Openable{
		{ID: "chrome", Name: "Chrome", Locator: "/Applications/Chrome.app", Icon: "chrome.png"},
		{ID: "notes", Name: "Notes", Locator: "/Applications/Notes.app"},
	}
}

func openSession(t *testing.T, backend kv.Store, running ...string) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Backend: backend,
		Catalog: catalog(),
		Oracle:  openable.NewRunningSet(running...),
		Params:  frecency.DefaultParams(),
		Scorer:  relevance.Default(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func ids(es []openable.Openable) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestOpen_LoadsBothDocuments(t *testing.T) {
	mem := kv.NewMemory().
		Seed(kv.KeyPreferences, `{"pinnedApps":["notes"]}`).
		Seed(kv.KeyHistory, `{"chrome":["2026-03-14T11:00:00Z"]}`)
	s := openSession(t, mem)

	if !s.Prefs().IsPinned("notes") {
		t.Error("preferences not loaded")
	}
	if len(s.History()["chrome"]) != 1 {
		t.Error("history not loaded")
	}

	p := s.Rank("")
	if len(p.Pinned) != 1 || p.Pinned[0].Item.ID != "notes" {
		t.Errorf("pinned = %+v", p.Pinned)
	}
	if len(p.Regular) != 1 || p.Regular[0].Item.ID != "chrome" {
		t.Errorf("regular = %+v", p.Regular)
	}
}

func TestOpen_FillsIconDefaults(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)

	ov, ok := s.Prefs().IconOverrides["chrome"]
	if !ok || ov.Default != "chrome.png" {
		t.Errorf("icon default = %+v, %v", ov, ok)
	}
	if _, ok := s.Prefs().IconOverrides["notes"]; ok {
		t.Error("items without an icon should not get a cache entry")
	}
	if n := len(mem.WritesFor(kv.KeyPreferences)); n != 1 {
		t.Errorf("expected one preferences write, got %d", n)
	}
}

func TestOpen_InvalidParams(t *testing.T) {
	_, err := Open(context.Background(), Options{
		Backend: kv.NewMemory(),
		Params:  frecency.Params{Lambda: 0.5, TimeScaleHours: 0},
		Scorer:  relevance.Default(),
	})
	if !errs.IsScoring(err) {
		t.Errorf("expected ScoringError, got %v", err)
	}
}

func TestOpen_NoBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Params: frecency.DefaultParams()}); err == nil {
		t.Error("expected error without backend")
	}
}

func TestMutations_UnknownIDIsNoop(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)
	ctx := context.Background()
	before := len(mem.Writes)

	calls := map[string]func() (bool, error){
		"pin":       func() (bool, error) { return s.TogglePin(ctx, "ghost") },
		"hide":      func() (bool, error) { return s.ToggleHidden(ctx, "ghost") },
		"running":   func() (bool, error) { return s.ToggleRunningCheck(ctx, "ghost") },
		"rename":    func() (bool, error) { return s.Rename(ctx, "ghost", "x") },
		"icon":      func() (bool, error) { return s.SetIcon(ctx, "ghost", "x.png") },
		"record":    func() (bool, error) { return s.RecordUsage(ctx, "ghost") },
		"rmwebsite": func() (bool, error) { return s.RemoveWebsite(ctx, "chrome") },
	}
	for name, call := range calls {
		changed, err := call()
		if changed || err != nil {
			t.Errorf("%s: got (%v, %v), want (false, nil)", name, changed, err)
		}
	}
	if len(mem.Writes) != before {
		t.Errorf("no-op mutations wrote %d times", len(mem.Writes)-before)
	}
}

func TestMutations_Persist(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)
	ctx := context.Background()

	if _, err := s.TogglePin(ctx, "chrome"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rename(ctx, "notes", "jot"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSortMode(ctx, prefs.SortAlphabetical); err != nil {
		t.Fatal(err)
	}

	reopened := openSession(t, mem)
	d := reopened.Prefs()
	if !d.IsPinned("chrome") || d.CustomName("notes") != "jot" || d.SortMode != prefs.SortAlphabetical {
		t.Errorf("changes not persisted: %+v", d)
	}
}

func TestSetSortMode_Invalid(t *testing.T) {
	s := openSession(t, kv.NewMemory())
	if err := s.SetSortMode(context.Background(), "manual"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPersistFailure_KeepsMemory(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)
	mem.SetErr = errors.New("disk full")
	ctx := context.Background()

	changed, err := s.TogglePin(ctx, "notes")
	if !changed || !errs.IsPersist(err) {
		t.Errorf("TogglePin = (%v, %v), want (true, persist error)", changed, err)
	}
	if !s.Prefs().IsPinned("notes") {
		t.Error("in-memory document should keep the change")
	}

	changed, err = s.RecordUsage(ctx, "notes")
	if !changed || !errs.IsPersist(err) {
		t.Errorf("RecordUsage = (%v, %v)", changed, err)
	}
	if len(s.History()["notes"]) != 1 {
		t.Error("in-memory history should keep the open")
	}
}

func TestRecordUsage(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)
	ctx := context.Background()

	if _, err := s.RecordUsage(ctx, "notes"); err != nil {
		t.Fatal(err)
	}

	got, _, _ := mem.Get(ctx, kv.KeyHistory)
	if got != `{"notes":["2026-03-14T12:00:00Z"]}` {
		t.Errorf("persisted history = %s", got)
	}
	if it, _ := s.Item("notes"); !it.Running {
		t.Error("opened app should be marked running")
	}

	p := s.Rank("")
	if p.Regular[0].Item.ID != "notes" {
		t.Errorf("recently used item should lead, got %s", p.Regular[0].Item.ID)
	}

	if err := s.ResetHistory(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := mem.Get(ctx, kv.KeyHistory); got != "{}" {
		t.Errorf("after reset = %s", got)
	}
	if len(s.History()) != 0 {
		t.Error("in-memory history not cleared")
	}
}

func TestRunningCheck(t *testing.T) {
	s := openSession(t, kv.NewMemory(), "Chrome")
	ctx := context.Background()

	if it, _ := s.Item("chrome"); !it.Running {
		t.Fatal("chrome should be running")
	}
	if _, err := s.ToggleRunningCheck(ctx, "chrome"); err != nil {
		t.Fatal(err)
	}
	if it, _ := s.Item("chrome"); it.Running {
		t.Error("chrome should ignore the oracle after toggling the running check")
	}
}

func TestSnapshot_RunningMatchesDocument(t *testing.T) {
	s := openSession(t, kv.NewMemory(), "Chrome")
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if _, err := s.ToggleRunningCheck(ctx, "chrome"); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		doc, items, _ := s.snapshot()
		for _, it := range items {
			if it.ID != "chrome" {
				continue
			}
			if want := !doc.SkipsRunningCheck("chrome"); it.Running != want {
				t.Fatalf("pass %d: Running = %v but document skips running check = %v", i, it.Running, !want)
			}
		}
	}
	<-done
}

func TestRank_UsesOneSnapshot(t *testing.T) {
	s := openSession(t, kv.NewMemory(), "Chrome")
	ctx := context.Background()
	if _, err := s.ToggleRunningCheck(ctx, "chrome"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordUsage(ctx, "notes"); err != nil {
		t.Fatal(err)
	}

	p := s.Rank("")
	if len(p.Regular) != 2 || p.Regular[0].Item.ID != "notes" {
		t.Fatalf("order = %+v, want notes first", p.Regular)
	}
	for _, e := range p.All() {
		if e.Item.ID == "chrome" && e.Item.Running {
			t.Error("chrome ignores its running check but ranked as running")
		}
	}
}

func TestWebsites(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)
	ctx := context.Background()

	site, err := openable.NewWebsite("Go", "https://go.dev")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddWebsite(ctx, site); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordUsage(ctx, site.ID); err != nil {
		t.Fatal(err)
	}
	if it, ok := s.Item(site.ID); !ok || it.Running {
		t.Errorf("website item = %+v, %v; websites never run", it, ok)
	}
	if got := ids(s.Items()); len(got) != 3 {
		t.Errorf("items = %v", got)
	}

	changed, err := s.RemoveWebsite(ctx, site.ID)
	if !changed || err != nil {
		t.Fatalf("RemoveWebsite = (%v, %v)", changed, err)
	}
	if _, ok := s.Item(site.ID); ok {
		t.Error("website still listed")
	}
	if _, ok := s.History()[site.ID]; ok {
		t.Error("website history should be forgotten")
	}
}

func TestConcurrentMutations_NoLostUpdates(t *testing.T) {
	var items []openable.Openable
	for i := 0; i < 20; i++ {
		items = append(items, openable.Openable{ID: fmt.Sprintf("app-%d", i), Name: fmt.Sprintf("App %d", i)})
	}
	mem := kv.NewMemory()
	s, err := Open(context.Background(), Options{
		Backend: mem,
		Catalog: items,
		Params:  frecency.DefaultParams(),
		Scorer:  relevance.Default(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			if _, err := s.TogglePin(ctx, id); err != nil {
				t.Error(err)
			}
		}(it.ID)
		go func(id string) {
			defer wg.Done()
			if _, err := s.RecordUsage(ctx, id); err != nil {
				t.Error(err)
			}
		}(it.ID)
	}
	wg.Wait()

	d := s.Prefs()
	h := s.History()
	for _, it := range items {
		if !d.IsPinned(it.ID) {
			t.Errorf("%s pin lost", it.ID)
		}
		if len(h[it.ID]) != 1 {
			t.Errorf("%s usage lost", it.ID)
		}
	}

	reopened, err := Open(ctx, Options{Backend: mem, Catalog: items, Params: frecency.DefaultParams(), Scorer: relevance.Default(), Now: func() time.Time { return now }, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.Prefs().Pinned) != len(items) || len(reopened.History()) != len(items) {
		t.Errorf("persisted state incomplete: %d pins, %d histories", len(reopened.Prefs().Pinned), len(reopened.History()))
	}
}

func TestReload(t *testing.T) {
	mem := kv.NewMemory()
	s := openSession(t, mem)

	mem.Seed(kv.KeyPreferences, `{"hidden":["chrome"]}`)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.Prefs().IsHidden("chrome") {
		t.Error("reload did not pick up external change")
	}
}
