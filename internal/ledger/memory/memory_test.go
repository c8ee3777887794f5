package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
)

func validInvoice(number string) core.Invoice {
	return core.Invoice{
		ID:            "inv-" + number,
		InvoiceNumber: number,
		Data: core.InvoiceData{
			InvoiceNumber: number,
			BillTo:        core.BillTo{Name: "Acme"},
			Items: []core.LineItem{{
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(100),
				Amount:      decimal.NewFromInt(100),
			}},
			Subtotal: decimal.NewFromInt(100),
			Total:    decimal.NewFromInt(118),
		},
	}
}

func TestAppend(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, validInvoice("INV-001"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	ref, err = s.Append(ctx, validInvoice("INV-002"))
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if ref != "mem:2" {
		t.Errorf("ref = %q, want mem:2", ref)
	}

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].InvoiceNumber != "INV-001" || entries[1].InvoiceNumber != "INV-002" {
		t.Errorf("entries out of order: %v, %v", entries[0].InvoiceNumber, entries[1].InvoiceNumber)
	}
}

func TestAppendRejectsInvalidInvoice(t *testing.T) {
	s := New()

	inv := validInvoice("INV-001")
	inv.Data.BillTo.Name = ""
	if _, err := s.Append(context.Background(), inv); err == nil {
		t.Fatal("append accepted an invoice without a customer name")
	}
	if len(s.Entries()) != 0 {
		t.Error("rejected invoice was stored")
	}
}
