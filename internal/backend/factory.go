package backend

import (
	"fmt"
	"log/slog"

	"smartspend/internal/config"
	"smartspend/internal/identity"
	"smartspend/internal/rowstore/memory"
	"smartspend/internal/rowstore/rest"
	"smartspend/internal/rowstore/sqlite"
)

// Factory builds backends from application configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend builds the configured backend.
func (f *Factory) CreateBackend(cfg *config.Config) (*Result, error) {
	t, err := FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	switch t {
	case RemoteBackend:
		return f.createRemote(cfg)
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}

func (f *Factory) createRemote(cfg *config.Config) (*Result, error) {
	store, err := rest.NewClient(rest.Config{
		Endpoint:   cfg.RowStoreEndpoint,
		ProjectID:  cfg.RowStoreProjectID,
		DatabaseID: cfg.RowStoreDatabaseID,
		APIKey:     cfg.RowStoreAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize row-store client: %w", err)
	}

	ids, err := identity.NewRESTService(identity.RESTConfig{
		Endpoint:  cfg.IdentityEndpoint,
		ProjectID: cfg.IdentityProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize identity client: %w", err)
	}

	f.logger.Info("Initialized remote backend",
		"rowstore_endpoint", cfg.RowStoreEndpoint,
		"identity_endpoint", cfg.IdentityEndpoint)

	return &Result{Store: store, Identity: ids}, nil
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	store, err := sqlite.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite store: %w", err)
	}

	f.logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)

	// Sessions are local when the data is; the remote identity service
	// only pairs with the remote row store.
	return &Result{
		Store:    store,
		Identity: identity.NewMemoryService(),
		Cleanup:  store.Close,
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{
		Store:    memory.New(),
		Identity: identity.NewMemoryService(),
	}, nil
}
