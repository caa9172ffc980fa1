package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
	"github.com/loomcli/loom/internal/config"
	"github.com/loomcli/loom/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your rating history to Google Sheets",
		Long: `Write the full rating history and a wardrobe summary to a Google Sheets
spreadsheet. Authentication comes from the config file or LOOM_SHEETS_*
environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("sheets configuration: %w", err)
			}

			backend, err := newBackend()
			if err != nil {
				return err
			}

			stats, err := backend.Stats(ctx)
			if err != nil {
				return err
			}

			ratings, err := backend.ListRatings(ctx)
			if err != nil {
				return err
			}

			logger := slog.Default().With("component", "sheets")
			writer, err := sheets.NewWriter(ctx, *sheetsConfig, logger)
			if err != nil {
				return err
			}

			if err := writer.Export(ctx, stats, ratings); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d ratings", len(ratings))))
			return nil
		},
	}

	return cmd
}
