package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"bizbooks/internal/config"
	"bizbooks/internal/ledger/google"
	"bizbooks/internal/ledger/memory"
)

// New builds the configured ledger backend. "memory" keeps exports in
// process; "sheets" appends to a Google Sheets spreadsheet.
func New(ctx context.Context, cfg *config.Config) (InvoiceAppender, error) {
	switch cfg.LedgerBackend {
	case "memory":
		slog.InfoContext(ctx, "Initialized memory ledger backend")
		return memory.New(), nil
	case "sheets":
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets ledger: %w", err)
		}
		slog.InfoContext(ctx, "Initialized Google Sheets ledger backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return cli, nil
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.LedgerBackend)
	}
}
