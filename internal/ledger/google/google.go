// Package google exports invoices to a Google Sheets ledger using a service
// account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bizbooks/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Config carries the connection settings. The application config layer owns
// loading and validating these; this package never reads the environment.
type Config struct {
	SpreadsheetID   string
	SheetName       string // default "Invoices"
	CredentialsJSON string // inline service account key, preferred when set
	CredentialsFile string // path to a service account key file
}

// New creates a Sheets ledger client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Invoices"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets ledger client created",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte

	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(strings.TrimSpace(cfg.CredentialsFile))
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Append writes one invoice row to the ledger sheet. Columns are
// A: invoice number, B: date, C: due date, D: customer, E: subtotal,
// F: tax, G: total, H: created_at.
func (c *Client) Append(ctx context.Context, inv core.Invoice) (string, error) {
	if err := inv.Data.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the sheet's current dimensions
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", c.sheetName, err)
	}

	nextRow := len(resp.Values) + 1

	subtotal, _ := inv.Data.Subtotal.Float64()
	tax, _ := inv.Data.TaxAmount.Float64()
	total, _ := inv.Data.Total.Float64()

	dataRange := fmt.Sprintf("%s!A%d:H%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		inv.InvoiceNumber,
		inv.Data.Date,
		inv.Data.DueDate,
		inv.Data.BillTo.Name,
		subtotal,
		tax,
		total,
		inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s in sheet %s: %w", dataRange, c.sheetName, err)
	}

	ref := dataRange

	slog.InfoContext(ctx, "Invoice exported to ledger sheet",
		"invoice_number", inv.InvoiceNumber,
		"ledger_ref", ref)

	return ref, nil
}
