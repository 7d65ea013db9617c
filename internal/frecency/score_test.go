package frecency

import (
	"math"
	"testing"
	"time"

	"github.com/kyleking/lazylaunch/internal/errs"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestScore_SingleHourOld(t *testing.T) {
	l := Log{"chrome": {now.Add(-time.Hour)}}
	got := l.Score("chrome", now, Params{Lambda: 0.5, TimeScaleHours: 6})
	want := math.Exp(-0.5 * (1.0 / 6.0))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
	if math.Abs(got-0.920) > 0.001 {
		t.Errorf("Score = %.4f, want about 0.920", got)
	}
}

func TestScore_ZeroHistory(t *testing.T) {
	l := Log{"chrome": {now}}
	if got := l.Score("notes", now, DefaultParams()); got != 0 {
		t.Errorf("Score for missing id = %v, want exactly 0", got)
	}
	if got := Score(nil, now, DefaultParams()); got != 0 {
		t.Errorf("Score(nil) = %v, want 0", got)
	}
}

func TestScore_DecayMonotonic(t *testing.T) {
	p := Params{Lambda: 0.5, TimeScaleHours: 6}
	prev := math.Inf(1)
	for _, age := range []time.Duration{0, time.Minute, time.Hour, 6 * time.Hour, 24 * time.Hour, 7 * 24 * time.Hour} {
		got := Score([]time.Time{now.Add(-age)}, now, p)
		if got >= prev {
			t.Errorf("score at age %v = %v, not below previous %v", age, got, prev)
		}
		prev = got
	}
}

func TestScore_LambdaZeroCountsOpens(t *testing.T) {
	ts := []time.Time{now.Add(-29 * 24 * time.Hour), now.Add(-time.Hour), now}
	if got := Score(ts, now, Params{Lambda: 0, TimeScaleHours: 6}); got != 3 {
		t.Errorf("Score with lambda 0 = %v, want 3", got)
	}
}

func TestScore_FutureTimestampCountsAsNow(t *testing.T) {
	got := Score([]time.Time{now.Add(time.Hour)}, now, DefaultParams())
	if got != 1 {
		t.Errorf("future timestamp score = %v, want 1", got)
	}
}

func TestScore_RecentBeatsFrequentOld(t *testing.T) {
	p := DefaultParams()
	recent := Score([]time.Time{now.Add(-10 * time.Minute)}, now, p)
	old := Score([]time.Time{
		now.Add(-10 * 24 * time.Hour),
		now.Add(-11 * 24 * time.Hour),
		now.Add(-12 * 24 * time.Hour),
	}, now, p)
	if recent <= old {
		t.Errorf("recent %v should beat three old opens %v", recent, old)
	}
}

func TestPrune(t *testing.T) {
	retention := 30 * 24 * time.Hour
	l := Log{
		"chrome": {now.Add(-31 * 24 * time.Hour), now.Add(-time.Hour)},
		"old":    {now.Add(-40 * 24 * time.Hour)},
		"edge":   {now.Add(-retention)},
		"empty":  {},
	}

	got := Prune(l, now, retention)

	if len(got) != 1 {
		t.Fatalf("expected only chrome to survive, got %v", got)
	}
	if len(got["chrome"]) != 1 || !got["chrome"][0].Equal(now.Add(-time.Hour)) {
		t.Errorf("chrome = %v, want only the recent timestamp", got["chrome"])
	}
	if len(l["chrome"]) != 2 {
		t.Error("Prune must not modify its input")
	}
}

func TestRecord(t *testing.T) {
	l := Log{"chrome": {now.Add(-time.Hour)}}
	got := Record(l, "chrome", now)
	got = Record(got, "notes", now)

	if len(got["chrome"]) != 2 {
		t.Errorf("chrome entries: got %d, want 2", len(got["chrome"]))
	}
	if len(got["notes"]) != 1 {
		t.Errorf("notes entries: got %d, want 1", len(got["notes"]))
	}
	if len(l["chrome"]) != 1 || l["notes"] != nil {
		t.Error("Record must not modify its input")
	}
}

func TestForget(t *testing.T) {
	l := Log{"a": {now}, "b": {now}}
	got := Forget(l, "a")
	if _, ok := got["a"]; ok {
		t.Error("a should be removed")
	}
	if _, ok := l["a"]; !ok {
		t.Error("Forget must not modify its input")
	}
}

func TestTop(t *testing.T) {
	l := Log{
		"b":      {now.Add(-time.Hour)},
		"a":      {now.Add(-time.Hour)},
		"chrome": {now.Add(-2 * time.Hour), now},
		"stale":  {now.Add(-20 * 24 * time.Hour)},
	}

	got := Top(l, now, DefaultParams(), 3)

	wantIDs := []string{"chrome", "a", "b"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Top returned %d entries, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Top[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Count != 2 || !got[0].LastUsed.Equal(now) {
		t.Errorf("chrome summary = %+v, want count 2 last used now", got[0])
	}

	if all := Top(l, now, DefaultParams(), 0); len(all) != 4 {
		t.Errorf("Top with no limit returned %d, want 4", len(all))
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"lambda zero", Params{Lambda: 0, TimeScaleHours: 1}, false},
		{"negative lambda", Params{Lambda: -1, TimeScaleHours: 1}, true},
		{"nan lambda", Params{Lambda: math.NaN(), TimeScaleHours: 1}, true},
		{"zero time scale", Params{Lambda: 1, TimeScaleHours: 0}, true},
		{"negative time scale", Params{Lambda: 1, TimeScaleHours: -2}, true},
		{"infinite time scale", Params{Lambda: 1, TimeScaleHours: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.IsScoring(err) {
				t.Errorf("expected ScoringError, got %T", err)
			}
		})
	}
}
