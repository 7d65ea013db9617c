package openable

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind distinguishes installed applications from bookmarked websites.
type Kind string

const (
	KindApp     Kind = "app"
	KindWebsite Kind = "website"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindApp || k == KindWebsite
}

// IconRef points at an icon: a file path, a URL, or a builtin name such as "builtin:globe".
type IconRef string

const (
	IconGlobe  IconRef = "builtin:globe"
	IconWindow IconRef = "builtin:app-window"
)

// Openable is the unit being ranked.
// Running is supplied by an external oracle each session and is never persisted.
type Openable struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"type"`
	Name    string  `json:"name"`
	Locator string  `json:"path"`
	Icon    IconRef `json:"icon,omitempty"`
	Running bool    `json:"-"`
}

// Action describes what opening the item does: apps launch, websites navigate.
func (o Openable) Action() string {
	if o.Kind == KindWebsite {
		return "navigate"
	}
	return "launch"
}

// NewWebsite builds a website record. The URL doubles as its identity.
func NewWebsite(name, url string) (Openable, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if name == "" {
		return Openable{}, fmt.Errorf("website name is required")
	}
	if url == "" {
		return Openable{}, fmt.Errorf("website url is required")
	}

	icon := IconGlobe
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		icon = IconRef(url + "/favicon.ico")
	}

	return Openable{
		ID:      url,
		Kind:    KindWebsite,
		Name:    name,
		Locator: url,
		Icon:    icon,
	}, nil
}

// Tag is a user label attached to an item.
type Tag struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Icon  IconRef `json:"icon,omitempty"`
	Color string  `json:"color,omitempty"`
}

// NewTag creates a tag with a fresh id.
func NewTag(title string, icon IconRef, color string) (Tag, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Tag{}, fmt.Errorf("tag title is required")
	}
	return Tag{
		ID:    uuid.New().String(),
		Title: title,
		Icon:  icon,
		Color: color,
	}, nil
}
