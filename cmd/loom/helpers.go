package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/loomcli/loom/internal/api"
	"github.com/loomcli/loom/internal/catalog"
	"github.com/loomcli/loom/internal/config"
	"github.com/loomcli/loom/internal/service"
	"github.com/loomcli/loom/internal/storage"
)

const defaultServerURL = "http://localhost:8000"

// newBackend builds the API client from configuration.
func newBackend() (*api.Client, error) {
	baseURL := viper.GetString("server.url")
	if baseURL == "" {
		baseURL = defaultServerURL
	}

	cfg := api.Config{BaseURL: baseURL}
	if timeout := viper.GetDuration("server.timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// newCatalog wraps the backend in the catalog client.
func newCatalog(backend service.Backend) *catalog.Client {
	return catalog.NewClient(backend)
}

// openCache opens the local warm-start cache, running migrations. A cache
// failure is not fatal for most commands; callers decide.
func openCache(ctx context.Context) (*storage.SQLiteCache, error) {
	dbPath := viper.GetString("cache.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/loom/loom.db"
	}
	dbPath = config.ExpandPath(dbPath)

	cache, err := storage.NewSQLiteCache(dbPath)
	if err != nil {
		return nil, err
	}

	if err := cache.Migrate(ctx); err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return cache, nil
}

// commandContext returns a bounded context for one-shot commands.
func commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*time.Minute)
}
