package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
	"github.com/loomcli/loom/internal/history"
	"github.com/loomcli/loom/internal/model"
)

func ratingsCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Show your rating history",
		Long:  `List past outfit ratings, newest first. With --cached the local cache is read instead of the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			var ratings []model.Rating

			if cached {
				cache, err := openCache(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = cache.Close() }()

				ratings, err = cache.RecentRatings(ctx, history.DefaultRecentLimit)
				if err != nil {
					return err
				}
			} else {
				backend, err := newBackend()
				if err != nil {
					return err
				}

				ratings, err = backend.ListRatings(ctx)
				if err != nil {
					return err
				}

				// Refresh the cache while we have fresh data.
				if cache, cacheErr := openCache(ctx); cacheErr == nil {
					keep := ratings
					if len(keep) > history.DefaultRecentLimit {
						keep = keep[:history.DefaultRecentLimit]
					}
					if saveErr := cache.SaveRatings(ctx, keep); saveErr != nil {
						slog.Warn("failed to refresh ratings cache", "error", saveErr)
					}
					_ = cache.Close()
				}
			}

			if len(ratings) == 0 {
				fmt.Println(cli.InfoStyle.Render("No ratings yet. Generate and rate outfits with 'loom builder'."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n", "Rating", "When", "Outfit")
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 6),
				strings.Repeat("-", 12),
				strings.Repeat("-", 30))

			for _, r := range ratings {
				fmt.Fprintf(w, "%s\t%s\t%s + %s + %s\n",
					cli.FormatStars(r.Stars, model.MaxRating),
					r.RatedAt.Format("Jan 2 15:04"),
					r.ShirtID, r.PantsID, r.ShoesID)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "read the local cache instead of the server")
	return cmd
}
