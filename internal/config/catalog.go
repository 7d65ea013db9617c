package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kyleking/lazylaunch/internal/openable"
)

// catalogFile is the on-disk list of installed applications.
type catalogFile struct {
	Apps []catalogApp `yaml:"apps"`
}

type catalogApp struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Icon    string `yaml:"icon"`
	Running bool   `yaml:"running"`
}

// LoadCatalog reads the application list and the names marked running.
// A missing file is an empty catalog. An app without an id uses its path.
func LoadCatalog(path string) ([]openable.Openable, []string, error) {
	data, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML.
func ParseCatalog(data []byte) ([]openable.Openable, []string, error) {
	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog: %w", err)
	}

	apps := make([]openable.Openable, 0, len(raw.Apps))
	var running []string
	seen := make(map[string]struct{}, len(raw.Apps))
	for i, a := range raw.Apps {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("catalog app %d: name is required", i)
		}
		id := strings.TrimSpace(a.ID)
		if id == "" {
			id = strings.TrimSpace(a.Path)
		}
		if id == "" {
			return nil, nil, fmt.Errorf("catalog app %q: id or path is required", name)
		}
		if _, dup := seen[id]; dup {
			return nil, nil, fmt.Errorf("duplicate catalog id: %s", id)
		}
		seen[id] = struct{}{}

		icon := openable.IconRef(a.Icon)
		if icon == "" {
			icon = openable.IconWindow
		}
		apps = append(apps, openable.Openable{
			ID:      id,
			Kind:    openable.KindApp,
			Name:    name,
			Locator: ExpandHome(a.Path),
			Icon:    icon,
		})
		if a.Running {
			running = append(running, name)
		}
	}
	return apps, running, nil
}
