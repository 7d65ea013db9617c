package openable

import "testing"

func TestNewWebsite(t *testing.T) {
	tests := []struct {
		name     string
		inName   string
		url      string
		wantID   string
		wantIcon IconRef
		wantErr  bool
	}{
		{"https url", "GitHub", "https://github.com/", "https://github.com", "https://github.com/favicon.ico", false},
		{"non http scheme", "Notes", "notes://inbox", "notes://inbox", IconGlobe, false},
		{"missing name", " ", "https://x.dev", "", "", true},
		{"missing url", "X", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewWebsite(tt.inName, tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.Icon != tt.wantIcon {
				t.Errorf("Icon = %q, want %q", got.Icon, tt.wantIcon)
			}
			if got.Kind != KindWebsite {
				t.Errorf("Kind = %q, want %q", got.Kind, KindWebsite)
			}
			if got.Action() != "navigate" {
				t.Errorf("Action() = %q, want navigate", got.Action())
			}
		})
	}
}

func TestNewTag(t *testing.T) {
	a, err := NewTag("work", IconGlobe, "blue")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTag("work", IconGlobe, "blue")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if _, err := NewTag("  ", "", ""); err == nil {
		t.Error("expected error for blank title")
	}
}

func TestResolve(t *testing.T) {
	items := []Openable{
		{ID: "com.google.chrome", Kind: KindApp, Name: "Google Chrome"},
		{ID: "com.apple.notes", Kind: KindApp, Name: "Notes"},
		{ID: "https://github.com", Kind: KindWebsite, Name: "Google Chrome"},
	}
	oracle := NewRunningSet("Google Chrome", "Notes")
	skip := func(id string) bool { return id == "com.apple.notes" }

	got := Resolve(items, oracle, skip)

	want := []bool{true, false, false}
	for i, w := range want {
		if got[i].Running != w {
			t.Errorf("%s running = %v, want %v", got[i].ID, got[i].Running, w)
		}
	}
	if items[0].Running {
		t.Error("Resolve must not modify its input")
	}
}

func TestResolve_NilOracle(t *testing.T) {
	got := Resolve([]Openable{{ID: "a", Kind: KindApp, Name: "A", Running: true}}, nil, nil)
	if got[0].Running {
		t.Error("nil oracle should report nothing running")
	}
}
