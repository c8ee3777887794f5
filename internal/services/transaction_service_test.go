package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
)

func saleTransaction(desc string, amount int64) core.Transaction {
	return core.Transaction{
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        core.Sale,
		Category:    "sales",
		Date:        "2026-08-01",
	}
}

func TestCreateSaleGeneratesInvoice(t *testing.T) {
	repo := newTestRepo(t)
	invoices := NewInvoiceService(repo, nil, 18, 15)
	svc := NewTransactionService(repo, invoices)
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, saleTransaction("Consulting from Acme Corp", 100))
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if tx.InvoiceID == "" {
		t.Fatal("sale saved without invoice reference")
	}

	inv, err := repo.GetInvoice(ctx, tx.InvoiceID)
	if err != nil {
		t.Fatalf("get generated invoice: %v", err)
	}
	if inv.InvoiceNumber != "INV-001" {
		t.Errorf("invoice number = %q, want INV-001", inv.InvoiceNumber)
	}
	if !inv.Data.Total.Equal(decimal.NewFromInt(118)) {
		t.Errorf("invoice total = %s, want 118", inv.Data.Total)
	}

	stored, err := repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get stored transaction: %v", err)
	}
	if stored.InvoiceID != inv.ID {
		t.Errorf("stored invoice_id = %q, want %q", stored.InvoiceID, inv.ID)
	}
}

func TestCreateExpenseDoesNotGenerateInvoice(t *testing.T) {
	repo := newTestRepo(t)
	invoices := NewInvoiceService(repo, nil, 18, 15)
	svc := NewTransactionService(repo, invoices)
	ctx := context.Background()

	tx := saleTransaction("Office rent", 200)
	tx.Type = core.Expense

	saved, err := svc.CreateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if saved.InvoiceID != "" {
		t.Errorf("expense got invoice %q", saved.InvoiceID)
	}

	all, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("invoices = %d, want 0", len(all))
	}
}

func TestCreateSaleWithoutInvoiceServiceStillSaves(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil)

	tx, err := svc.CreateTransaction(context.Background(), saleTransaction("Cash sale", 40))
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if tx.InvoiceID != "" {
		t.Errorf("invoice_id = %q, want empty", tx.InvoiceID)
	}
	if _, err := repo.GetTransaction(context.Background(), tx.ID); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil)

	tests := []struct {
		name    string
		mutate  func(*core.Transaction)
		wantErr error
	}{
		{"bad date", func(tx *core.Transaction) { tx.Date = "01/08/2026" }, core.ErrInvalidDate},
		{"empty description", func(tx *core.Transaction) { tx.Description = "  " }, core.ErrEmptyDescription},
		{"bad type", func(tx *core.Transaction) { tx.Type = "refund" }, core.ErrInvalidType},
		{"negative amount", func(tx *core.Transaction) { tx.Amount = decimal.NewFromInt(-1) }, core.ErrInvalidAmount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := saleTransaction("Consulting", 100)
			tc.mutate(&tx)
			if _, err := svc.CreateTransaction(context.Background(), tx); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
