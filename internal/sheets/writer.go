package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/loomcli/loom/internal/common"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

// Writer exports rating history to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets exporter.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Export writes the wardrobe stats and rating history to the spreadsheet.
// Any existing data is replaced; the export is a full snapshot, not an
// append.
func (w *Writer) Export(ctx context.Context, stats *model.Stats, ratings []model.Rating) error {
	w.logger.Info("starting ratings export", "ratings", len(ratings))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareExportData(stats, ratings)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("ratings export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		// Verify the spreadsheet exists and is accessible.
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Ratings",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareExportData lays out the export rows: a wardrobe summary up top,
// then one row per rating, newest first as the backend reports them.
func (w *Writer) prepareExportData(stats *model.Stats, ratings []model.Rating) [][]any {
	// Header(2) + summary(6) + per-role counts + empty(1) + rating header(2) + ratings
	estimatedRows := 11 + len(model.ItemTypes()) + len(ratings)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{"Loom Rating History", time.Now().Format("Jan 2, 2006")},
		[]any{}, // Empty row
		[]any{"Wardrobe Summary"},
	)

	if stats != nil {
		values = append(values,
			[]any{"Total Items", stats.TotalItems},
			[]any{"Total Ratings", stats.TotalRatings},
			[]any{"Average Rating", fmt.Sprintf("%.2f", stats.AvgRating)},
			[]any{"Possible Outfits", stats.TotalCombinations()},
		)
		for _, t := range model.ItemTypes() {
			values = append(values, []any{t.Title(), stats.Count(t)})
		}
		if stats.ActiveModel != nil {
			values = append(values, []any{"Active Model", *stats.ActiveModel})
		}
		if stats.ModelAccuracy != nil {
			values = append(values, []any{"Model Accuracy", fmt.Sprintf("%.1f%%", *stats.ModelAccuracy*100)})
		}
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Rating History"},
		[]any{"Rated At", "Shirt", "Pants", "Shoes", "Stars", "Notes"},
	)

	for _, r := range ratings {
		values = append(values, []any{
			r.RatedAt.Format("2006-01-02 15:04"),
			r.ShirtID,
			r.PantsID,
			r.ShoesID,
			r.Stars,
			r.Notes,
		})
	}

	return values
}

// writeData writes the export rows to the spreadsheet in one update.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %d rows: %w", len(values), err)
	}

	w.logger.Debug("wrote export rows", "rows", len(values))
	return nil
}

// applyFormatting applies formatting to the spreadsheet.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	requests := []*sheets.Request{
		// Format the title row
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 16,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Bold the section labels in column A
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    2,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Auto-resize columns
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   6,
				},
			},
		},
		// Freeze the title rows
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 2,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
