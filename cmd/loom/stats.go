package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
	"github.com/loomcli/loom/internal/model"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show wardrobe statistics",
		Long:  `Display catalog counts, possible combinations, rating totals, and the active model.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			backend, err := newBackend()
			if err != nil {
				return err
			}

			stats, err := backend.Stats(ctx)
			if err != nil {
				return err
			}

			// Keep the warm-start snapshot fresh.
			if cache, cacheErr := openCache(ctx); cacheErr == nil {
				if saveErr := cache.SaveStats(ctx, stats); saveErr != nil {
					slog.Warn("failed to refresh stats cache", "error", saveErr)
				}
				_ = cache.Close()
			}

			var b strings.Builder
			for _, role := range model.ItemTypes() {
				b.WriteString(fmt.Sprintf("%s %-6s %d\n", cli.RoleIcon(string(role)), role.Title(), stats.Count(role)))
			}
			b.WriteString(fmt.Sprintf("\nPossible outfits   %d\n", stats.TotalCombinations()))
			b.WriteString(fmt.Sprintf("Ratings            %d (avg %.1f)\n", stats.TotalRatings, stats.AvgRating))
			b.WriteString(fmt.Sprintf("Cached features    %d\n", stats.CachedFeatures))
			b.WriteString(fmt.Sprintf("Cached predictions %d\n", stats.CachedPredictions))
			b.WriteString(fmt.Sprintf("Next retrain       in %d ratings\n", stats.RatingsUntilRetrain()))

			if stats.ActiveModel != nil {
				b.WriteString(fmt.Sprintf("\n%s Model %s", cli.BrainIcon, *stats.ActiveModel))
				if stats.ModelAccuracy != nil {
					b.WriteString(fmt.Sprintf(" (%.0f%% accurate)", *stats.ModelAccuracy*100))
				}
			} else {
				b.WriteString("\n" + cli.SubtleStyle.Render("No trained model yet; keep rating outfits"))
			}

			fmt.Println(cli.RenderBox(cli.ChartIcon+" Wardrobe Stats", b.String()))
			return nil
		},
	}
}
