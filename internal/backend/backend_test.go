package backend

import (
	"path/filepath"
	"testing"

	"smartspend/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"remote", true},
		{"sqlite", true},
		{"memory", true},
		{"", false},
		{"sheets", false},
	}
	for _, tt := range tests {
		if got := Type(tt.in).IsValid(); got != tt.want {
			t.Errorf("Type(%q).IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromAppConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := FromAppConfig(&config.Config{DataBackend: "cloud"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.CreateBackend(&config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("create memory backend: %v", err)
	}
	if result.Store == nil || result.Identity == nil {
		t.Fatal("expected store and identity")
	}
	if result.Cleanup != nil {
		t.Fatal("memory backend needs no cleanup")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.CreateBackend(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("create sqlite backend: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must return a cleanup func")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateRemoteBackendRequiresEndpoints(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(&config.Config{DataBackend: "remote"}); err == nil {
		t.Fatal("expected error without endpoints")
	}
}
