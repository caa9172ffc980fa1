package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/loomcli/loom/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and
// environment variables. Precedence:
// 1. Viper configuration (from config file or LOOM_ env vars)
// 2. Direct environment variables (LOOM_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}

	// Fall back to direct environment variables for anything unset.
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("LOOM_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("LOOM_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("LOOM_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("LOOM_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("LOOM_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == "" {
		config.SpreadsheetName = os.Getenv("LOOM_SHEETS_SPREADSHEET_NAME")
	}
	if config.SpreadsheetName == "" {
		config.SpreadsheetName = "Loom Rating History"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
