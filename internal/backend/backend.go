// Package backend selects and constructs the row-store and identity
// collaborators from configuration: the hosted remote services, a local
// sqlite file, or in-memory stores for development and tests.
package backend

import (
	"fmt"

	"smartspend/internal/config"
	"smartspend/internal/identity"
	"smartspend/internal/rowstore"
)

type Type string

const (
	RemoteBackend Type = "remote"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case RemoteBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types lists the valid backend selections, for error messages.
func Types() []Type {
	return []Type{RemoteBackend, SQLiteBackend, MemoryBackend}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result carries the constructed collaborators. Identity is the external
// identity service; local backends get the in-memory one.
type Result struct {
	Store    rowstore.Client
	Identity identity.Service
	Cleanup  CleanupFunc
}

// FromAppConfig validates the configured backend selection.
func FromAppConfig(cfg *config.Config) (Type, error) {
	if cfg == nil {
		return "", fmt.Errorf("app config is nil")
	}
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid data backend %q (valid: %v)", cfg.DataBackend, Types())
	}
	return t, nil
}
