package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "tx-1",
		Description: "Office rent",
		Amount:      decimal.NewFromInt(1200),
		Type:        Expense,
		Category:    "Rent",
		Date:        "2025-06-01",
	}
}

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, nil},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"description too long", func(tx *Transaction) { tx.Description = strings.Repeat("x", 501) }, nil},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "refund" }, ErrInvalidType},
		{"bad date", func(tx *Transaction) { tx.Date = "01/06/2025" }, ErrInvalidDate},
		{"missing date", func(tx *Transaction) { tx.Date = "" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			err := tx.Validate()
			if tc.name == "valid" {
				if err != nil {
					t.Fatalf("expected valid transaction, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransactionTypeValid(t *testing.T) {
	for _, typ := range []TransactionType{Income, Expense, Purchase, Sale} {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	for _, typ := range []TransactionType{"", "INCOME", "refund"} {
		if typ.Valid() {
			t.Errorf("%q should be invalid", typ)
		}
	}
}

func TestInvoiceDataValidate(t *testing.T) {
	valid := InvoiceData{
		InvoiceNumber: "INV-001",
		BillTo:        BillTo{Name: "Acme"},
		Items: []LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(100),
			Amount:      decimal.NewFromInt(100),
		}},
		Subtotal:  decimal.NewFromInt(100),
		TaxRate:   decimal.NewFromInt(18),
		TaxAmount: decimal.NewFromInt(18),
		Total:     decimal.NewFromInt(118),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid invoice data rejected: %v", err)
	}

	noName := valid
	noName.BillTo = BillTo{}
	if err := noName.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("missing billTo name: got %v, want %v", err, ErrEmptyName)
	}

	noItems := valid
	noItems.Items = nil
	if err := noItems.Validate(); !errors.Is(err, ErrNoItems) {
		t.Errorf("missing items: got %v, want %v", err, ErrNoItems)
	}

	negative := valid
	negative.Total = decimal.NewFromInt(-1)
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative total: got %v, want %v", err, ErrInvalidAmount)
	}
}

func TestCustomerValidate(t *testing.T) {
	c := Customer{Name: "Acme", Type: Business}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid customer rejected: %v", err)
	}

	c.Name = ""
	if err := c.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: got %v", err)
	}

	c = Customer{Name: "Acme", Type: "corporation"}
	if err := c.Validate(); err == nil {
		t.Error("unknown customer type accepted")
	}

	c = Customer{Name: "Acme", Type: Individual, PaymentTerms: -7}
	if err := c.Validate(); err == nil {
		t.Error("negative payment terms accepted")
	}
}
