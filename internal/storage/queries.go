package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every query can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row types mirror the table columns one to one. Amounts travel as decimal
// strings and timestamps as RFC 3339 strings; the repository converts them to
// domain types.

type TransactionRow struct {
	ID          string
	Description string
	Amount      string
	Type        string
	Category    string
	Date        string
	InvoiceID   sql.NullString
	UserID      string
	CreatedAt   string
}

type InvoiceRow struct {
	ID            string
	InvoiceNumber string
	Data          string
	SyncStatus    string
	SyncedAt      sql.NullString
	UserID        string
	CreatedAt     string
}

type CustomerRow struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Address        string
	City           string
	State          string
	Pincode        string
	GSTN           string
	CustomerType   string
	PaymentTerms   int64
	CreditLimit    string
	OpeningBalance string
	Notes          string
	IsActive       int64
	UserID         string
	CreatedAt      string
	UpdatedAt      string
}

type ProfileRow struct {
	BusinessName    string
	BusinessAddress string
	ContactNumber   string
	GSTNNumber      string
	UpdatedAt       string
}

const createTransaction = `
INSERT INTO transactions (id, description, amount, type, category, date, invoice_id, user_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTransaction(ctx context.Context, row TransactionRow) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		row.ID, row.Description, row.Amount, row.Type, row.Category,
		row.Date, row.InvoiceID, row.UserID, row.CreatedAt)
	return err
}

const getTransaction = `
SELECT id, description, amount, type, category, date, invoice_id, user_id, created_at
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (TransactionRow, error) {
	var row TransactionRow
	err := q.db.QueryRowContext(ctx, getTransaction, id).Scan(
		&row.ID, &row.Description, &row.Amount, &row.Type, &row.Category,
		&row.Date, &row.InvoiceID, &row.UserID, &row.CreatedAt)
	return row, err
}

const listTransactions = `
SELECT id, description, amount, type, category, date, invoice_id, user_id, created_at
FROM transactions
ORDER BY created_at, id
`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var row TransactionRow
		if err := rows.Scan(
			&row.ID, &row.Description, &row.Amount, &row.Type, &row.Category,
			&row.Date, &row.InvoiceID, &row.UserID, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const deleteTransaction = `
DELETE FROM transactions
WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createInvoice = `
INSERT INTO invoices (id, invoice_number, data, sync_status, user_id, created_at)
VALUES (?, ?, ?, 'pending', ?, ?)
`

func (q *Queries) CreateInvoice(ctx context.Context, row InvoiceRow) error {
	_, err := q.db.ExecContext(ctx, createInvoice,
		row.ID, row.InvoiceNumber, row.Data, row.UserID, row.CreatedAt)
	return err
}

const getInvoice = `
SELECT id, invoice_number, data, sync_status, synced_at, user_id, created_at
FROM invoices
WHERE id = ?
`

func (q *Queries) GetInvoice(ctx context.Context, id string) (InvoiceRow, error) {
	var row InvoiceRow
	err := q.db.QueryRowContext(ctx, getInvoice, id).Scan(
		&row.ID, &row.InvoiceNumber, &row.Data, &row.SyncStatus,
		&row.SyncedAt, &row.UserID, &row.CreatedAt)
	return row, err
}

const listInvoices = `
SELECT id, invoice_number, data, sync_status, synced_at, user_id, created_at
FROM invoices
ORDER BY created_at, id
`

func (q *Queries) ListInvoices(ctx context.Context) ([]InvoiceRow, error) {
	rows, err := q.db.QueryContext(ctx, listInvoices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceRow
	for rows.Next() {
		var row InvoiceRow
		if err := rows.Scan(
			&row.ID, &row.InvoiceNumber, &row.Data, &row.SyncStatus,
			&row.SyncedAt, &row.UserID, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const deleteInvoice = `
DELETE FROM invoices
WHERE id = ?
`

func (q *Queries) DeleteInvoice(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteInvoice, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPendingSyncInvoices = `
SELECT id, invoice_number, data, sync_status, synced_at, user_id, created_at
FROM invoices
WHERE sync_status IN ('pending', 'error')
ORDER BY created_at, id
LIMIT ?
`

func (q *Queries) GetPendingSyncInvoices(ctx context.Context, limit int64) ([]InvoiceRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncInvoices, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceRow
	for rows.Next() {
		var row InvoiceRow
		if err := rows.Scan(
			&row.ID, &row.InvoiceNumber, &row.Data, &row.SyncStatus,
			&row.SyncedAt, &row.UserID, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const markInvoiceSynced = `
UPDATE invoices
SET sync_status = 'synced', synced_at = ?
WHERE id = ?
`

func (q *Queries) MarkInvoiceSynced(ctx context.Context, id, syncedAt string) error {
	_, err := q.db.ExecContext(ctx, markInvoiceSynced, syncedAt, id)
	return err
}

const markInvoiceSyncError = `
UPDATE invoices
SET sync_status = 'error'
WHERE id = ?
`

func (q *Queries) MarkInvoiceSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markInvoiceSyncError, id)
	return err
}

const bumpInvoiceCounter = `
UPDATE invoice_counter
SET counter = counter + 1
WHERE id = 1
RETURNING counter
`

// BumpInvoiceCounter increments the shared counter in a single statement and
// returns the new value. sql.ErrNoRows means the row was never seeded.
func (q *Queries) BumpInvoiceCounter(ctx context.Context) (int64, error) {
	var counter int64
	err := q.db.QueryRowContext(ctx, bumpInvoiceCounter).Scan(&counter)
	return counter, err
}

const seedInvoiceCounter = `
INSERT INTO invoice_counter (id, counter)
VALUES (1, ?)
ON CONFLICT (id) DO NOTHING
`

func (q *Queries) SeedInvoiceCounter(ctx context.Context, counter int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, seedInvoiceCounter, counter)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createCustomer = `
INSERT INTO customers (
    id, name, email, phone, address, city, state, pincode, gstn,
    customer_type, payment_terms, credit_limit, opening_balance,
    notes, is_active, user_id, created_at, updated_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateCustomer(ctx context.Context, row CustomerRow) error {
	_, err := q.db.ExecContext(ctx, createCustomer,
		row.ID, row.Name, row.Email, row.Phone, row.Address, row.City,
		row.State, row.Pincode, row.GSTN, row.CustomerType, row.PaymentTerms,
		row.CreditLimit, row.OpeningBalance, row.Notes, row.IsActive,
		row.UserID, row.CreatedAt, row.UpdatedAt)
	return err
}

const getCustomer = `
SELECT id, name, email, phone, address, city, state, pincode, gstn,
       customer_type, payment_terms, credit_limit, opening_balance,
       notes, is_active, user_id, created_at, updated_at
FROM customers
WHERE id = ?
`

func (q *Queries) GetCustomer(ctx context.Context, id string) (CustomerRow, error) {
	var row CustomerRow
	err := q.db.QueryRowContext(ctx, getCustomer, id).Scan(
		&row.ID, &row.Name, &row.Email, &row.Phone, &row.Address, &row.City,
		&row.State, &row.Pincode, &row.GSTN, &row.CustomerType, &row.PaymentTerms,
		&row.CreditLimit, &row.OpeningBalance, &row.Notes, &row.IsActive,
		&row.UserID, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const listCustomers = `
SELECT id, name, email, phone, address, city, state, pincode, gstn,
       customer_type, payment_terms, credit_limit, opening_balance,
       notes, is_active, user_id, created_at, updated_at
FROM customers
WHERE is_active = 1 OR ? = 1
ORDER BY name, id
`

func (q *Queries) ListCustomers(ctx context.Context, includeInactive bool) ([]CustomerRow, error) {
	all := int64(0)
	if includeInactive {
		all = 1
	}
	rows, err := q.db.QueryContext(ctx, listCustomers, all)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerRow
	for rows.Next() {
		var row CustomerRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Email, &row.Phone, &row.Address, &row.City,
			&row.State, &row.Pincode, &row.GSTN, &row.CustomerType, &row.PaymentTerms,
			&row.CreditLimit, &row.OpeningBalance, &row.Notes, &row.IsActive,
			&row.UserID, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const updateCustomer = `
UPDATE customers
SET name = ?, email = ?, phone = ?, address = ?, city = ?, state = ?,
    pincode = ?, gstn = ?, customer_type = ?, payment_terms = ?,
    credit_limit = ?, opening_balance = ?, notes = ?, is_active = ?,
    updated_at = ?
WHERE id = ?
`

func (q *Queries) UpdateCustomer(ctx context.Context, row CustomerRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCustomer,
		row.Name, row.Email, row.Phone, row.Address, row.City, row.State,
		row.Pincode, row.GSTN, row.CustomerType, row.PaymentTerms,
		row.CreditLimit, row.OpeningBalance, row.Notes, row.IsActive,
		row.UpdatedAt, row.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deactivateCustomer = `
UPDATE customers
SET is_active = 0, updated_at = ?
WHERE id = ?
`

func (q *Queries) DeactivateCustomer(ctx context.Context, id, updatedAt string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deactivateCustomer, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getProfile = `
SELECT business_name, business_address, contact_number, gstn_number, updated_at
FROM profiles
WHERE id = 1
`

func (q *Queries) GetProfile(ctx context.Context) (ProfileRow, error) {
	var row ProfileRow
	err := q.db.QueryRowContext(ctx, getProfile).Scan(
		&row.BusinessName, &row.BusinessAddress, &row.ContactNumber,
		&row.GSTNNumber, &row.UpdatedAt)
	return row, err
}

const upsertProfile = `
INSERT INTO profiles (id, business_name, business_address, contact_number, gstn_number, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    business_name = excluded.business_name,
    business_address = excluded.business_address,
    contact_number = excluded.contact_number,
    gstn_number = excluded.gstn_number,
    updated_at = excluded.updated_at
`

func (q *Queries) UpsertProfile(ctx context.Context, row ProfileRow) error {
	_, err := q.db.ExecContext(ctx, upsertProfile,
		row.BusinessName, row.BusinessAddress, row.ContactNumber,
		row.GSTNNumber, row.UpdatedAt)
	return err
}
