package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive outfit builder and blocks until it exits.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Backend == nil {
		return fmt.Errorf("backend is required")
	}
	if cfg.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Restore the terminal even when we exit through a panic or signal.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cleanupTerminal()
			cancel()
		case <-ctx.Done():
		}
	}()

	program := tea.NewProgram(
		newModel(cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("outfit builder exited: %w", err)
	}

	return nil
}
