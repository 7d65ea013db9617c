package prefs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/kv"
	"github.com/kyleking/lazylaunch/internal/openable"
)

// rawDocument mirrors Document with pointer fields so absent and null values
// can be told apart from zero values.
type rawDocument struct {
	SortMode                 *SortMode                  `json:"sortType"`
	Pinned                   *[]string                  `json:"pinnedApps"`
	Hidden                   *[]string                  `json:"hidden"`
	CustomNames              *map[string]string         `json:"customNames"`
	IconOverrides            *map[string]IconOverride   `json:"cachedIconDirectories"`
	ItemsWithoutRunningCheck *[]string                  `json:"appsWithoutRunningCheck"`
	PrioritizeRunningFirst   *bool                      `json:"prioritizeRunningApps"`
	ShowHidden               *bool                      `json:"showHidden"`
	Websites                 *[]openable.Openable       `json:"websites"`
	Tags                     *map[string][]openable.Tag `json:"tags"`
	QuickCommands            *map[string]QuickCommand   `json:"quickCommands"`
}

// Decode parses a persisted document and fills every absent or null field
// from Default. Malformed JSON is a StoreParseError.
func Decode(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Default(), &errs.StoreParseError{Key: kv.KeyPreferences, Err: err}
	}
	return applyDefaults(raw), nil
}

// Encode serializes the whole document.
func Encode(d Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}
	return data, nil
}

func applyDefaults(raw rawDocument) Document {
	d := Default()

	if raw.SortMode != nil && raw.SortMode.Valid() {
		d.SortMode = *raw.SortMode
	}
	if raw.Pinned != nil {
		d.Pinned = cleanIDs(*raw.Pinned)
	}
	if raw.Hidden != nil {
		d.Hidden = cleanIDs(*raw.Hidden)
	}
	if raw.CustomNames != nil {
		for id, name := range *raw.CustomNames {
			if id != "" && strings.TrimSpace(name) != "" {
				d.CustomNames[id] = name
			}
		}
	}
	if raw.IconOverrides != nil {
		for id, ov := range *raw.IconOverrides {
			if id != "" {
				d.IconOverrides[id] = ov
			}
		}
	}
	if raw.ItemsWithoutRunningCheck != nil {
		d.ItemsWithoutRunningCheck = cleanIDs(*raw.ItemsWithoutRunningCheck)
	}
	if raw.PrioritizeRunningFirst != nil {
		d.PrioritizeRunningFirst = *raw.PrioritizeRunningFirst
	}
	if raw.ShowHidden != nil {
		d.ShowHidden = *raw.ShowHidden
	}
	if raw.Websites != nil {
		seen := make(map[string]bool)
		for _, w := range *raw.Websites {
			if w.ID == "" || seen[w.ID] {
				continue
			}
			seen[w.ID] = true
			w.Kind = openable.KindWebsite
			w.Running = false
			d.Websites = append(d.Websites, w)
		}
	}
	if raw.Tags != nil {
		for id, tags := range *raw.Tags {
			if id != "" && len(tags) > 0 {
				d.Tags[id] = tags
			}
		}
	}
	if raw.QuickCommands != nil {
		for id, qc := range *raw.QuickCommands {
			if id != "" && qc.Key != "" {
				d.QuickCommands[id] = qc
			}
		}
	}
	return d
}

// cleanIDs drops blanks and duplicates, keeping first-seen order.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
