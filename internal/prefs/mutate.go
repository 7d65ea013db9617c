package prefs

import (
	"slices"
	"strings"

	"github.com/kyleking/lazylaunch/internal/openable"
)

// Field names a toggleable id set.
type Field string

const (
	FieldPinned                   Field = "pinned"
	FieldHidden                   Field = "hidden"
	FieldItemsWithoutRunningCheck Field = "itemsWithoutRunningCheck"
)

// Flag names a toggleable boolean.
type Flag string

const (
	FlagPrioritizeRunning Flag = "prioritizeRunningFirst"
	FlagShowHidden        Flag = "showHidden"
)

// Toggle removes id from the named set if present, otherwise adds it.
// Toggling twice restores the original membership.
func (d Document) Toggle(f Field, id string) Document {
	out := d.Clone()
	switch f {
	case FieldPinned:
		out.Pinned = toggle(out.Pinned, id)
	case FieldHidden:
		out.Hidden = toggle(out.Hidden, id)
	case FieldItemsWithoutRunningCheck:
		out.ItemsWithoutRunningCheck = toggle(out.ItemsWithoutRunningCheck, id)
	}
	return out
}

func toggle(set []string, id string) []string {
	if i := slices.Index(set, id); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, id)
}

// ToggleFlag flips a boolean preference.
func (d Document) ToggleFlag(f Flag) Document {
	out := d.Clone()
	switch f {
	case FlagPrioritizeRunning:
		out.PrioritizeRunningFirst = !out.PrioritizeRunningFirst
	case FlagShowHidden:
		out.ShowHidden = !out.ShowHidden
	}
	return out
}

// SetCustomName assigns an alias. A blank name clears it.
func (d Document) SetCustomName(id, name string) Document {
	if strings.TrimSpace(name) == "" {
		return d.ClearCustomName(id)
	}
	out := d.Clone()
	out.CustomNames[id] = name
	return out
}

// ClearCustomName removes the alias for id.
func (d Document) ClearCustomName(id string) Document {
	out := d.Clone()
	delete(out.CustomNames, id)
	return out
}

// SetIconOverride sets the user's icon for id. A nil icon removes the custom
// choice and keeps the cached default.
func (d Document) SetIconOverride(id string, icon *openable.IconRef) Document {
	out := d.Clone()
	ov := out.IconOverrides[id]
	if icon != nil {
		c := *icon
		ov.Custom = &c
	} else {
		ov.Custom = nil
	}
	if ov.Default == "" && ov.Custom == nil {
		delete(out.IconOverrides, id)
		return out
	}
	out.IconOverrides[id] = ov
	return out
}

// SetDefaultIcon records the icon an item ships with, keeping any custom choice.
func (d Document) SetDefaultIcon(id string, icon openable.IconRef) Document {
	out := d.Clone()
	ov := out.IconOverrides[id]
	ov.Default = icon
	out.IconOverrides[id] = ov
	return out
}

// ClearIconCache empties every icon override.
func (d Document) ClearIconCache() Document {
	out := d.Clone()
	out.IconOverrides = map[string]IconOverride{}
	return out
}

// SetSortMode changes the ordering. Unknown modes leave d unchanged.
func (d Document) SetSortMode(m SortMode) Document {
	out := d.Clone()
	if m.Valid() {
		out.SortMode = m
	}
	return out
}

// AddWebsite appends w, replacing any website with the same id in place.
func (d Document) AddWebsite(w openable.Openable) Document {
	out := d.Clone()
	w.Kind = openable.KindWebsite
	w.Running = false
	for i := range out.Websites {
		if out.Websites[i].ID == w.ID {
			out.Websites[i] = w
			return out
		}
	}
	out.Websites = append(out.Websites, w)
	return out
}

// RemoveWebsite deletes the website and every preference keyed by its id.
func (d Document) RemoveWebsite(id string) Document {
	out := d.Clone()
	out.Websites = slices.DeleteFunc(out.Websites, func(w openable.Openable) bool { return w.ID == id })
	out.Pinned = slices.DeleteFunc(out.Pinned, func(s string) bool { return s == id })
	out.Hidden = slices.DeleteFunc(out.Hidden, func(s string) bool { return s == id })
	delete(out.CustomNames, id)
	delete(out.IconOverrides, id)
	delete(out.Tags, id)
	delete(out.QuickCommands, id)
	return out
}

// AddTag attaches tag to id. A tag with the same id is replaced.
func (d Document) AddTag(id string, tag openable.Tag) Document {
	out := d.Clone()
	tags := out.Tags[id]
	if i := slices.IndexFunc(tags, func(t openable.Tag) bool { return t.ID == tag.ID }); i >= 0 {
		tags[i] = tag
	} else {
		tags = append(tags, tag)
	}
	out.Tags[id] = tags
	return out
}

// RemoveTag detaches the tag with tagID from id.
func (d Document) RemoveTag(id, tagID string) Document {
	out := d.Clone()
	tags := slices.DeleteFunc(out.Tags[id], func(t openable.Tag) bool { return t.ID == tagID })
	if len(tags) == 0 {
		delete(out.Tags, id)
	} else {
		out.Tags[id] = tags
	}
	return out
}

// SetQuickCommand binds a shortcut to id.
func (d Document) SetQuickCommand(id string, qc QuickCommand) Document {
	out := d.Clone()
	qc.Modifiers = slices.Clone(qc.Modifiers)
	out.QuickCommands[id] = qc
	return out
}

// ClearQuickCommand removes the shortcut bound to id.
func (d Document) ClearQuickCommand(id string) Document {
	out := d.Clone()
	delete(out.QuickCommands, id)
	return out
}
