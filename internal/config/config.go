package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds the environment-driven settings for gridcli's optional
// external collaborators (spec §6): the Postgres-backed workbook
// store and worker JTI store, and the Google Sheets mirror. None of
// these are required to use the grid core itself — only the gridcli
// subcommands that talk to those collaborators read them.
type Config struct {
	DatabaseURL           string
	WorkerJTITTL          time.Duration
	SheetsSpreadsheetID   string
	SheetsCredentialsJSON string
	AutosaveInterval      time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:           envOrDefaultWarn("DATABASE_URL", ""),
		WorkerJTITTL:          envOrDefaultDuration("WORKER_JTI_TTL", 1*time.Hour),
		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsJSON: envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
		AutosaveInterval:      envOrDefaultDuration("AUTOSAVE_INTERVAL", 30*time.Second),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
