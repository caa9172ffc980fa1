package tui

import (
	"github.com/loomcli/loom/internal/catalog"
	"github.com/loomcli/loom/internal/service"
	"github.com/loomcli/loom/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Backend service.Backend
	Catalog *catalog.Client
	Cache   service.RatingsCache
	Theme   themes.Theme
	Width   int
	Height  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// WithBackend sets the wardrobe backend.
func WithBackend(backend service.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
		if c.Catalog == nil {
			c.Catalog = catalog.NewClient(backend)
		}
	}
}

// WithCatalog sets the catalog client, overriding the one derived from the
// backend.
func WithCatalog(cat *catalog.Client) Option {
	return func(c *Config) {
		c.Catalog = cat
	}
}

// WithCache sets the warm-start ratings cache. Optional; without it the TUI
// starts cold and every view waits on the network.
func WithCache(cache service.RatingsCache) Option {
	return func(c *Config) {
		c.Cache = cache
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
