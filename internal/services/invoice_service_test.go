package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
	"bizbooks/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testInvoiceData(name string, amount int64) core.InvoiceData {
	return core.InvoiceData{
		Date:   "2026-08-01",
		BillTo: core.BillTo{Name: name},
		Items: []core.LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(amount),
			Amount:      decimal.NewFromInt(amount),
		}},
	}
}

func TestIssueInvoiceAllocatesSequentialNumbers(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInvoiceService(repo, nil, 18, 15)
	ctx := context.Background()

	first, err := svc.IssueInvoice(ctx, testInvoiceData("Acme Corp", 100))
	if err != nil {
		t.Fatalf("issue first invoice: %v", err)
	}
	second, err := svc.IssueInvoice(ctx, testInvoiceData("Globex", 200))
	if err != nil {
		t.Fatalf("issue second invoice: %v", err)
	}

	if first.InvoiceNumber != "INV-001" {
		t.Errorf("first number = %q, want INV-001", first.InvoiceNumber)
	}
	if second.InvoiceNumber != "INV-002" {
		t.Errorf("second number = %q, want INV-002", second.InvoiceNumber)
	}

	stored, err := repo.GetInvoice(ctx, first.ID)
	if err != nil {
		t.Fatalf("get stored invoice: %v", err)
	}
	if stored.Data.InvoiceNumber != "INV-001" {
		t.Errorf("stored data number = %q, want INV-001", stored.Data.InvoiceNumber)
	}
}

func TestIssueInvoiceComputesTotals(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInvoiceService(repo, nil, 18, 15)

	inv, err := svc.IssueInvoice(context.Background(), testInvoiceData("Acme Corp", 100))
	if err != nil {
		t.Fatalf("issue invoice: %v", err)
	}

	if !inv.Data.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("subtotal = %s, want 100", inv.Data.Subtotal)
	}
	if !inv.Data.TaxAmount.Equal(decimal.NewFromInt(18)) {
		t.Errorf("tax = %s, want 18", inv.Data.TaxAmount)
	}
	if !inv.Data.Total.Equal(decimal.NewFromInt(118)) {
		t.Errorf("total = %s, want 118", inv.Data.Total)
	}
	if inv.Data.DueDate != "2026-08-16" {
		t.Errorf("due date = %q, want 2026-08-16", inv.Data.DueDate)
	}
}

func TestIssueInvoiceStampsProfile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveProfile(ctx, core.Profile{
		BusinessName: "Sharma Traders",
		GSTNNumber:   "22AAAAA0000A1Z5",
	}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	svc := NewInvoiceService(repo, nil, 18, 15)
	inv, err := svc.IssueInvoice(ctx, testInvoiceData("Acme Corp", 100))
	if err != nil {
		t.Fatalf("issue invoice: %v", err)
	}

	if inv.Data.BusinessInfo.BusinessName != "Sharma Traders" {
		t.Errorf("business name = %q, want Sharma Traders", inv.Data.BusinessInfo.BusinessName)
	}
	if inv.Data.BusinessInfo.GSTNNumber != "22AAAAA0000A1Z5" {
		t.Errorf("gstn = %q", inv.Data.BusinessInfo.GSTNNumber)
	}
}

func TestIssueInvoiceRejectsInvalidData(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInvoiceService(repo, nil, 18, 15)
	ctx := context.Background()

	data := testInvoiceData("", 100)
	if _, err := svc.IssueInvoice(ctx, data); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}

	// A rejected invoice must not burn a number.
	inv, err := svc.IssueInvoice(ctx, testInvoiceData("Acme Corp", 100))
	if err != nil {
		t.Fatalf("issue invoice: %v", err)
	}
	if inv.InvoiceNumber != "INV-001" {
		t.Errorf("number after rejection = %q, want INV-001", inv.InvoiceNumber)
	}
}

func TestInvoiceForSale(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInvoiceService(repo, nil, 18, 15)

	tx := core.Transaction{
		ID:          "tx-1",
		Description: "Website redesign from Acme Corp",
		Amount:      decimal.NewFromInt(500),
		Type:        core.Sale,
		Date:        "2026-08-01",
	}
	inv, err := svc.InvoiceForSale(context.Background(), tx)
	if err != nil {
		t.Fatalf("invoice for sale: %v", err)
	}

	if inv.Data.BillTo.Name != "Acme Corp" {
		t.Errorf("billTo = %q, want Acme Corp", inv.Data.BillTo.Name)
	}
	if len(inv.Data.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(inv.Data.Items))
	}
	if !inv.Data.Items[0].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("item amount = %s, want 500", inv.Data.Items[0].Amount)
	}
	if !inv.Data.Total.Equal(decimal.NewFromInt(590)) {
		t.Errorf("total = %s, want 590", inv.Data.Total)
	}
	if inv.Data.DueDate != "2026-08-16" {
		t.Errorf("due date = %q, want 2026-08-16", inv.Data.DueDate)
	}
}

func TestInvoiceForSaleNoCounterparty(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInvoiceService(repo, nil, 18, 15)

	tx := core.Transaction{
		Description: "Walk-in repair job",
		Amount:      decimal.NewFromInt(50),
		Type:        core.Sale,
		Date:        "2026-08-01",
	}
	inv, err := svc.InvoiceForSale(context.Background(), tx)
	if err != nil {
		t.Fatalf("invoice for sale: %v", err)
	}
	if inv.Data.BillTo.Name != core.CashSaleCustomer {
		t.Errorf("billTo = %q, want %q", inv.Data.BillTo.Name, core.CashSaleCustomer)
	}
}
