package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "WORKER_JTI_TTL", "SHEETS_SPREADSHEET_ID", "SHEETS_CREDENTIALS_JSON", "AUTOSAVE_INTERVAL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.WorkerJTITTL != 1*time.Hour {
		t.Errorf("WorkerJTITTL = %v, want 1h", cfg.WorkerJTITTL)
	}
	if cfg.SheetsSpreadsheetID != "" {
		t.Errorf("SheetsSpreadsheetID = %q, want empty", cfg.SheetsSpreadsheetID)
	}
	if cfg.AutosaveInterval != 30*time.Second {
		t.Errorf("AutosaveInterval = %v, want 30s", cfg.AutosaveInterval)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/griddb")
	t.Setenv("WORKER_JTI_TTL", "5m")
	t.Setenv("SHEETS_SPREADSHEET_ID", "abc123")
	t.Setenv("AUTOSAVE_INTERVAL", "10s")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://localhost/griddb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.WorkerJTITTL != 5*time.Minute {
		t.Errorf("WorkerJTITTL = %v, want 5m", cfg.WorkerJTITTL)
	}
	if cfg.SheetsSpreadsheetID != "abc123" {
		t.Errorf("SheetsSpreadsheetID = %q, want abc123", cfg.SheetsSpreadsheetID)
	}
	if cfg.AutosaveInterval != 10*time.Second {
		t.Errorf("AutosaveInterval = %v, want 10s", cfg.AutosaveInterval)
	}
}

func TestLoadInvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("WORKER_JTI_TTL", "not-a-duration")

	cfg := Load()

	if cfg.WorkerJTITTL != 1*time.Hour {
		t.Errorf("WorkerJTITTL = %v, want default 1h on invalid input", cfg.WorkerJTITTL)
	}
}
