package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/tui"
)

func builderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builder",
		Short: "Open the interactive outfit builder",
		Long: `Launch the full-screen builder: browse your wardrobe, compose outfits
slot by slot or generate them, rate the results, and watch the model learn.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := newBackend()
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithBackend(backend)}

			// The builder works without the cache; it just starts cold.
			if cache, cacheErr := openCache(cmd.Context()); cacheErr == nil {
				defer func() { _ = cache.Close() }()
				opts = append(opts, tui.WithCache(cache))
			} else {
				slog.Warn("starting without warm-start cache", "error", cacheErr)
			}

			return tui.Run(cmd.Context(), opts...)
		},
	}
}
