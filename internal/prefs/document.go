// Package prefs owns the persisted preference document: pins, hidden items,
// custom names and icons, the website list, and display toggles.
//
// Every mutation is a pure function from one Document to a new one; the caller
// persists the result with Store.Save. There is no partial-field persistence.
package prefs

import (
	"slices"

	"github.com/kyleking/lazylaunch/internal/openable"
)

// SortMode selects the ordering used within each partition.
type SortMode string

const (
	SortFrecency     SortMode = "frecency"
	SortAlphabetical SortMode = "alphabetical"
	// SortCustom is accepted for compatibility and orders like SortAlphabetical.
	SortCustom SortMode = "custom"
)

// SortModes lists every accepted mode in display order.
var SortModes = []SortMode{SortFrecency, SortAlphabetical, SortCustom}

// Valid reports whether m is a known mode.
func (m SortMode) Valid() bool {
	return slices.Contains(SortModes, m)
}

// Next cycles through SortModes.
func (m SortMode) Next() SortMode {
	i := slices.Index(SortModes, m)
	return SortModes[(i+1)%len(SortModes)]
}

// IconOverride caches an item's default icon and an optional user choice.
type IconOverride struct {
	Default openable.IconRef  `json:"default"`
	Custom  *openable.IconRef `json:"custom"`
}

// QuickCommand is a keyboard shortcut bound to an item.
type QuickCommand struct {
	Modifiers []string `json:"modifiers"`
	Key       string   `json:"key"`
}

// Document is the full preference record.
// JSON names match the documents written by earlier versions of the launcher.
type Document struct {
	SortMode                 SortMode                  `json:"sortType"`
	Pinned                   []string                  `json:"pinnedApps"`
	Hidden                   []string                  `json:"hidden"`
	CustomNames              map[string]string         `json:"customNames"`
	IconOverrides            map[string]IconOverride   `json:"cachedIconDirectories"`
	ItemsWithoutRunningCheck []string                  `json:"appsWithoutRunningCheck"`
	PrioritizeRunningFirst   bool                      `json:"prioritizeRunningApps"`
	ShowHidden               bool                      `json:"showHidden"`
	Websites                 []openable.Openable       `json:"websites"`
	Tags                     map[string][]openable.Tag `json:"tags"`
	QuickCommands            map[string]QuickCommand   `json:"quickCommands"`
}

// Default returns the documented default record. Every collection is non-nil.
func Default() Document {
	return Document{
		SortMode:                 SortFrecency,
		Pinned:                   []string{},
		Hidden:                   []string{},
		CustomNames:              map[string]string{},
		IconOverrides:            map[string]IconOverride{},
		ItemsWithoutRunningCheck: []string{},
		PrioritizeRunningFirst:   false,
		ShowHidden:               false,
		Websites:                 []openable.Openable{},
		Tags:                     map[string][]openable.Tag{},
		QuickCommands:            map[string]QuickCommand{},
	}
}

// Clone returns a deep copy sharing no mutable state with d.
func (d Document) Clone() Document {
	out := d
	out.Pinned = slices.Clone(nonNil(d.Pinned))
	out.Hidden = slices.Clone(nonNil(d.Hidden))
	out.ItemsWithoutRunningCheck = slices.Clone(nonNil(d.ItemsWithoutRunningCheck))
	out.Websites = append([]openable.Openable{}, d.Websites...)

	out.CustomNames = make(map[string]string, len(d.CustomNames))
	for k, v := range d.CustomNames {
		out.CustomNames[k] = v
	}

	out.IconOverrides = make(map[string]IconOverride, len(d.IconOverrides))
	for k, v := range d.IconOverrides {
		if v.Custom != nil {
			c := *v.Custom
			v.Custom = &c
		}
		out.IconOverrides[k] = v
	}

	out.Tags = make(map[string][]openable.Tag, len(d.Tags))
	for k, v := range d.Tags {
		out.Tags[k] = slices.Clone(v)
	}

	out.QuickCommands = make(map[string]QuickCommand, len(d.QuickCommands))
	for k, v := range d.QuickCommands {
		v.Modifiers = slices.Clone(v.Modifiers)
		out.QuickCommands[k] = v
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// IsPinned reports whether id is pinned.
func (d Document) IsPinned(id string) bool {
	return slices.Contains(d.Pinned, id)
}

// IsHidden reports whether id is hidden.
func (d Document) IsHidden(id string) bool {
	return slices.Contains(d.Hidden, id)
}

// SkipsRunningCheck reports whether id ignores the running-state oracle.
func (d Document) SkipsRunningCheck(id string) bool {
	return slices.Contains(d.ItemsWithoutRunningCheck, id)
}

// CustomName returns the user's alias for id, or "".
func (d Document) CustomName(id string) string {
	return d.CustomNames[id]
}

// DisplayName returns the custom name if set, else the item's own name.
func (d Document) DisplayName(o openable.Openable) string {
	if n := d.CustomNames[o.ID]; n != "" {
		return n
	}
	return o.Name
}

// IconFor resolves the icon to show: custom, then cached default, then the item's own.
func (d Document) IconFor(o openable.Openable) openable.IconRef {
	if ov, ok := d.IconOverrides[o.ID]; ok {
		if ov.Custom != nil {
			return *ov.Custom
		}
		if ov.Default != "" {
			return ov.Default
		}
	}
	return o.Icon
}

// Website returns the stored website with id.
func (d Document) Website(id string) (openable.Openable, bool) {
	for _, w := range d.Websites {
		if w.ID == id {
			return w, true
		}
	}
	return openable.Openable{}, false
}
