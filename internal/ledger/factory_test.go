package ledger

import (
	"context"
	"testing"

	"bizbooks/internal/config"
)

func TestNewMemoryBackend(t *testing.T) {
	appender, err := New(context.Background(), &config.Config{LedgerBackend: "memory"})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if appender == nil {
		t.Fatal("memory backend returned nil appender")
	}
}

func TestNewSheetsBackendRequiresConfig(t *testing.T) {
	// Spreadsheet ID and credentials come from the config, not the
	// environment; an empty config must fail.
	_, err := New(context.Background(), &config.Config{LedgerBackend: "sheets"})
	if err == nil {
		t.Fatal("sheets backend without spreadsheet config should fail")
	}
}

func TestNewUnsupportedBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{LedgerBackend: "tape"})
	if err == nil {
		t.Fatal("unsupported backend should fail")
	}
}
