package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/builder-tracking/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets settings from the global viper.
func LoadSheetsConfig() (*sheets.Config, error) {
	return LoadSheetsConfigFrom(viper.GetViper())
}

// LoadSheetsConfigFrom loads Google Sheets settings with this precedence:
//  1. sheets.* keys (config file or TRACKER_SHEETS_* env vars)
//  2. GOOGLE_SHEETS_* environment variables
//  3. defaults
func LoadSheetsConfigFrom(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()
	cfg.SpreadsheetName = ""

	cfg.ServiceAccountPath = ExpandPath(v.GetString("sheets.service_account_path"))
	cfg.ClientID = v.GetString("sheets.client_id")
	cfg.ClientSecret = v.GetString("sheets.client_secret")
	cfg.RefreshToken = v.GetString("sheets.refresh_token")
	cfg.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	cfg.SpreadsheetName = v.GetString("sheets.spreadsheet_name")

	if s := v.GetString("sheets.timezone"); s != "" {
		cfg.TimeZone = s
	} else if s := v.GetString("program.timezone"); s != "" {
		cfg.TimeZone = s
	}
	if v.IsSet("sheets.batch_size") {
		cfg.BatchSize = v.GetInt("sheets.batch_size")
	}
	if v.IsSet("sheets.retry_attempts") {
		cfg.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		cfg.RetryDelay = v.GetDuration("sheets.retry_delay")
	}
	if v.IsSet("sheets.formatting") {
		cfg.EnableFormatting = v.GetBool("sheets.formatting")
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
