// Package sheets exports savings summaries to Google Sheets.
package sheets

import (
	"fmt"
	"os"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: "Relatório de Economias",
		TimeZone:        "America/Sao_Paulo",
		BatchSize:       500,
	}
}

// LoadFromEnv loads credentials from environment variables. Values already
// set on the config are kept.
func (c *Config) LoadFromEnv() {
	if c.ServiceAccountPath == "" {
		c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT")
	}
	if c.ClientID == "" {
		c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if c.RefreshToken == "" {
		c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
}

// Validate checks that the config carries a usable set of credentials.
func (c *Config) Validate() error {
	if c.ServiceAccountPath != "" {
		if _, err := os.Stat(c.ServiceAccountPath); err != nil {
			return fmt.Errorf("service account file not accessible: %w", err)
		}
		return nil
	}
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return fmt.Errorf("missing OAuth2 credentials: need client ID, client secret and refresh token, or a service account file")
	}
	return nil
}
