// Package storage persists the accounting data in SQLite and owns the shared
// invoice counter.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite serializes writers; a busy timeout keeps concurrent allocations
	// queueing instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the store is reachable. Used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	return nil
}

// AllocateInvoiceNumber reserves the next invoice number. The increment runs
// as a single UPDATE so two concurrent requests can never be handed the same
// number. A missing counter row is seeded so the first allocation yields
// INV-001.
func (r *SQLiteRepository) AllocateInvoiceNumber(ctx context.Context) (string, error) {
	for {
		next, err := r.queries.BumpInvoiceCounter(ctx)
		if err == nil {
			// next is the post-increment value; the allocated number is the
			// value the counter held before.
			allocated := next - 1
			if allocated < 1 {
				return "", fmt.Errorf("%w: counter value %d", core.ErrAllocation, allocated)
			}
			number := core.FormatInvoiceNumber(allocated)
			slog.InfoContext(ctx, "Allocated invoice number", "invoice_number", number)
			return number, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: bump invoice counter: %v", core.ErrStoreUnavailable, err)
		}

		// First allocation ever: seed the row with the follow-up value and
		// hand out 1. If another request seeded it first, loop back to the
		// increment path.
		seeded, err := r.queries.SeedInvoiceCounter(ctx, 2)
		if err != nil {
			return "", fmt.Errorf("%w: seed invoice counter: %v", core.ErrStoreUnavailable, err)
		}
		if seeded > 0 {
			number := core.FormatInvoiceNumber(1)
			slog.InfoContext(ctx, "Seeded invoice counter", "invoice_number", number)
			return number, nil
		}
	}
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	row := TransactionRow{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        tx.Date,
		UserID:      tx.UserID,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if tx.InvoiceID != "" {
		row.InvoiceID = sql.NullString{String: tx.InvoiceID, Valid: true}
	}
	if err := r.queries.CreateTransaction(ctx, row); err != nil {
		return fmt.Errorf("%w: create transaction: %v", core.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String())
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: get transaction: %v", core.ErrStoreUnavailable, err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", core.ErrStoreUnavailable, err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := transactionFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row",
				"id", row.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete transaction: %v", core.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) error {
	data, err := json.Marshal(inv.Data)
	if err != nil {
		return fmt.Errorf("marshal invoice data: %w", err)
	}
	row := InvoiceRow{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Data:          string(data),
		UserID:        inv.UserID,
		CreatedAt:     inv.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if err := r.queries.CreateInvoice(ctx, row); err != nil {
		return fmt.Errorf("%w: create invoice: %v", core.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "Invoice saved",
		"id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"total", inv.Data.Total.String())
	return nil
}

func (r *SQLiteRepository) GetInvoice(ctx context.Context, id string) (core.Invoice, error) {
	row, err := r.queries.GetInvoice(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, fmt.Errorf("%w: invoice %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("%w: get invoice: %v", core.ErrStoreUnavailable, err)
	}
	return invoiceFromRow(row)
}

// ListInvoices returns every stored invoice. Rows whose JSON document no
// longer parses are skipped with a warning so one bad row never takes down a
// listing or a statement view.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.queries.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", core.ErrStoreUnavailable, err)
	}

	out := make([]core.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := invoiceFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed invoice row",
				"id", row.ID, "invoice_number", row.InvoiceNumber, "error", err)
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteInvoice(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete invoice: %v", core.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: invoice %s", core.ErrNotFound, id)
	}
	return nil
}

// PendingSyncInvoice is the minimal payload queued for ledger export.
type PendingSyncInvoice struct {
	ID            string
	InvoiceNumber string
	CreatedAt     time.Time
}

// GetPendingSyncInvoices returns invoices still waiting for ledger export,
// including earlier failures so they get retried.
func (r *SQLiteRepository) GetPendingSyncInvoices(ctx context.Context, limit int) ([]PendingSyncInvoice, error) {
	rows, err := r.queries.GetPendingSyncInvoices(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: get pending sync invoices: %v", core.ErrStoreUnavailable, err)
	}

	out := make([]PendingSyncInvoice, len(rows))
	for i, row := range rows {
		createdAt, _ := time.Parse(time.RFC3339Nano, row.CreatedAt)
		out[i] = PendingSyncInvoice{
			ID:            row.ID,
			InvoiceNumber: row.InvoiceNumber,
			CreatedAt:     createdAt,
		}
	}
	return out, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := r.queries.MarkInvoiceSynced(ctx, id, now); err != nil {
		return fmt.Errorf("%w: mark invoice synced: %v", core.ErrStoreUnavailable, err)
	}
	slog.InfoContext(ctx, "Invoice marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkInvoiceSyncError(ctx, id); err != nil {
		return fmt.Errorf("%w: mark invoice sync error: %v", core.ErrStoreUnavailable, err)
	}
	slog.WarnContext(ctx, "Invoice marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, c core.Customer) error {
	if err := r.queries.CreateCustomer(ctx, customerToRow(c)); err != nil {
		return fmt.Errorf("%w: create customer: %v", core.ErrStoreUnavailable, err)
	}
	slog.InfoContext(ctx, "Customer saved", "id", c.ID, "name", c.Name)
	return nil
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id string) (core.Customer, error) {
	row, err := r.queries.GetCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Customer{}, fmt.Errorf("%w: customer %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Customer{}, fmt.Errorf("%w: get customer: %v", core.ErrStoreUnavailable, err)
	}
	return customerFromRow(row)
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context, includeInactive bool) ([]core.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%w: list customers: %v", core.ErrStoreUnavailable, err)
	}

	out := make([]core.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := customerFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed customer row",
				"id", row.ID, "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, c core.Customer) error {
	affected, err := r.queries.UpdateCustomer(ctx, customerToRow(c))
	if err != nil {
		return fmt.Errorf("%w: update customer: %v", core.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: customer %s", core.ErrNotFound, c.ID)
	}
	return nil
}

// DeactivateCustomer soft-deletes: the row stays so historical statements and
// invoices keep resolving.
func (r *SQLiteRepository) DeactivateCustomer(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	affected, err := r.queries.DeactivateCustomer(ctx, id, now)
	if err != nil {
		return fmt.Errorf("%w: deactivate customer: %v", core.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: customer %s", core.ErrNotFound, id)
	}
	return nil
}

// GetProfile returns the business profile, or a zero profile when none has
// been saved yet.
func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.Profile, error) {
	row, err := r.queries.GetProfile(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("%w: get profile: %v", core.ErrStoreUnavailable, err)
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	return core.Profile{
		BusinessName:    row.BusinessName,
		BusinessAddress: row.BusinessAddress,
		ContactNumber:   row.ContactNumber,
		GSTNNumber:      row.GSTNNumber,
		UpdatedAt:       updatedAt,
	}, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.Profile) error {
	row := ProfileRow{
		BusinessName:    p.BusinessName,
		BusinessAddress: p.BusinessAddress,
		ContactNumber:   p.ContactNumber,
		GSTNNumber:      p.GSTNNumber,
		UpdatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := r.queries.UpsertProfile(ctx, row); err != nil {
		return fmt.Errorf("%w: save profile: %v", core.ErrStoreUnavailable, err)
	}
	slog.InfoContext(ctx, "Business profile saved", "business_name", p.BusinessName)
	return nil
}

func transactionFromRow(row TransactionRow) (core.Transaction, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: amount %q: %v", core.ErrMalformedRecord, row.Amount, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: created_at %q: %v", core.ErrMalformedRecord, row.CreatedAt, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Description: row.Description,
		Amount:      amount,
		Type:        core.TransactionType(row.Type),
		Category:    row.Category,
		Date:        row.Date,
		CreatedAt:   createdAt,
		InvoiceID:   row.InvoiceID.String,
		UserID:      row.UserID,
	}, nil
}

func invoiceFromRow(row InvoiceRow) (core.Invoice, error) {
	var data core.InvoiceData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return core.Invoice{}, fmt.Errorf("%w: invoice data: %v", core.ErrMalformedRecord, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("%w: created_at %q: %v", core.ErrMalformedRecord, row.CreatedAt, err)
	}
	return core.Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		Data:          data,
		CreatedAt:     createdAt,
		UserID:        row.UserID,
	}, nil
}

func customerToRow(c core.Customer) CustomerRow {
	active := int64(0)
	if c.Active {
		active = 1
	}
	return CustomerRow{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		Pincode:        c.Pincode,
		GSTN:           c.GSTN,
		CustomerType:   string(c.Type),
		PaymentTerms:   int64(c.PaymentTerms),
		CreditLimit:    c.CreditLimit.String(),
		OpeningBalance: c.OpeningBalance.String(),
		Notes:          c.Notes,
		IsActive:       active,
		UserID:         c.UserID,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func customerFromRow(row CustomerRow) (core.Customer, error) {
	creditLimit, err := decimal.NewFromString(row.CreditLimit)
	if err != nil {
		return core.Customer{}, fmt.Errorf("%w: credit_limit %q: %v", core.ErrMalformedRecord, row.CreditLimit, err)
	}
	openingBalance, err := decimal.NewFromString(row.OpeningBalance)
	if err != nil {
		return core.Customer{}, fmt.Errorf("%w: opening_balance %q: %v", core.ErrMalformedRecord, row.OpeningBalance, err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, row.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	return core.Customer{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		Phone:          row.Phone,
		Address:        row.Address,
		City:           row.City,
		State:          row.State,
		Pincode:        row.Pincode,
		GSTN:           row.GSTN,
		Type:           core.CustomerType(row.CustomerType),
		PaymentTerms:   int(row.PaymentTerms),
		CreditLimit:    creditLimit,
		OpeningBalance: openingBalance,
		Notes:          row.Notes,
		Active:         row.IsActive == 1,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		UserID:         row.UserID,
	}, nil
}
