// Package kv is the byte-level persistence contract of the launcher: a string
// key-value store holding two named documents.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Keys of the persisted documents.
const (
	KeyPreferences = "preferences"
	KeyHistory     = "usage-history"
)

// Store reads and writes whole documents by key.
// Get reports ok=false for a key that was never written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
}

// Validate checks the backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("storage path is required for the file backend")
		}
	case BackendSQLite, BackendPostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("storage dsn is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	return nil
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return NewSQLite(ctx, cfg.DSN)
	case BackendPostgres:
		return NewPostgres(ctx, cfg.DSN)
	default:
		return NewMemory(), nil
	}
}
