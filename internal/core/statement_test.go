package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixedPolicy(now time.Time) StatementPolicy {
	return StatementPolicy{
		OverdueAfter: DefaultOverdueAfter,
		Now:          func() time.Time { return now },
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func invoiceFor(id, name, email, total string, createdAt time.Time) Invoice {
	return Invoice{
		ID:            id,
		InvoiceNumber: "INV-001",
		CreatedAt:     createdAt,
		Data: InvoiceData{
			InvoiceNumber: "INV-001",
			BillTo:        BillTo{Name: name, Email: email},
			Items:         []LineItem{{Description: "item", Quantity: dec("1"), UnitPrice: dec(total), Amount: dec(total)}},
			Subtotal:      dec(total),
			Total:         dec(total),
		},
	}
}

func TestBuildStatementsAcmeEndToEnd(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	inv := invoiceFor("inv-1", "Acme", "", "118", now.AddDate(0, 0, -2))
	txs := []Transaction{{
		ID:          "tx-1",
		Description: "Payment for web design",
		Amount:      dec("118"),
		Type:        Sale,
		Date:        "2025-06-14",
		CreatedAt:   now.AddDate(0, 0, -1),
		InvoiceID:   "inv-1",
	}}

	stmts := BuildStatements([]Invoice{inv}, txs, fixedPolicy(now))
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	st := stmts[0]
	if st.CustomerName != "Acme" {
		t.Errorf("customer name = %q, want Acme", st.CustomerName)
	}
	if !st.TotalSales.Equal(dec("118")) || !st.TotalPayments.Equal(dec("118")) {
		t.Errorf("totals = %s/%s, want 118/118", st.TotalSales, st.TotalPayments)
	}
	if !st.BalanceAmount.IsZero() {
		t.Errorf("balance = %s, want 0", st.BalanceAmount)
	}
	if st.Status != StatementPaid {
		t.Errorf("status = %s, want paid", st.Status)
	}
	if st.InvoiceCount != 1 || st.TransactionCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", st.InvoiceCount, st.TransactionCount)
	}
}

func TestBuildStatementsTotalSalesConservation(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	invoices := []Invoice{
		invoiceFor("a", "Acme", "acme@example.com", "100.50", now),
		invoiceFor("b", "Acme", "acme@example.com", "49.50", now),
		invoiceFor("c", "Globex", "", "200", now),
		invoiceFor("d", "", "", "999", now), // unresolvable, skipped
	}

	stmts := BuildStatements(invoices, nil, fixedPolicy(now))

	sum := decimal.Zero
	for _, st := range stmts {
		sum = sum.Add(st.TotalSales)
	}
	if !sum.Equal(dec("350")) {
		t.Fatalf("sum of totalSales = %s, want 350 (skipped invoice excluded)", sum)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
}

func TestBuildStatementsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	invoices := []Invoice{
		invoiceFor("a", "Acme", "", "100", now.AddDate(0, 0, -10)),
		invoiceFor("b", "Globex", "g@example.com", "55.25", now.AddDate(0, 0, -3)),
	}
	txs := []Transaction{
		{ID: "t1", Description: "Received payment from Initech", Amount: dec("30"), Type: Income, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "t2", Description: "Payment", Amount: dec("100"), Type: Sale, InvoiceID: "a", CreatedAt: now},
	}

	first := BuildStatements(invoices, txs, fixedPolicy(now))
	second := BuildStatements(invoices, txs, fixedPolicy(now))

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.CustomerName != b.CustomerName || !a.TotalSales.Equal(b.TotalSales) ||
			!a.TotalPayments.Equal(b.TotalPayments) || a.Status != b.Status {
			t.Fatalf("statement %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestBuildStatementsStatusClassification(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		total     string
		payments  string
		invoiceAt time.Time
		want      StatementStatus
	}{
		{"fully paid", "1000", "1000", now.AddDate(0, 0, -45), StatementPaid},
		{"unpaid and stale", "1000", "0", now.AddDate(0, 0, -45), StatementOverdue},
		{"unpaid but recent", "1000", "0", now.AddDate(0, 0, -5), StatementPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := invoiceFor("inv", "Acme", "", tc.total, tc.invoiceAt)
			var txs []Transaction
			if tc.payments != "0" {
				txs = append(txs, Transaction{
					ID: "t", Description: "payment", Amount: dec(tc.payments),
					Type: Sale, InvoiceID: "inv", CreatedAt: tc.invoiceAt,
				})
			}
			stmts := BuildStatements([]Invoice{inv}, txs, fixedPolicy(now))
			if len(stmts) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(stmts))
			}
			if stmts[0].Status != tc.want {
				t.Errorf("status = %s, want %s", stmts[0].Status, tc.want)
			}
		})
	}
}

func TestBuildStatementsNoDatesDefaultsPending(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	// Zero CreatedAt on the invoice leaves the statement without activity dates.
	inv := invoiceFor("inv", "Acme", "", "50", time.Time{})
	stmts := BuildStatements([]Invoice{inv}, nil, fixedPolicy(now))
	if len(stmts) != 1 || stmts[0].Status != StatementPending {
		t.Fatalf("expected pending statement, got %+v", stmts)
	}
}

func TestBuildStatementsDanglingInvoiceReference(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	inv := invoiceFor("inv-1", "Acme", "", "100", now)
	txs := []Transaction{{
		ID: "t1", Description: "payment", Amount: dec("100"),
		Type: Sale, InvoiceID: "gone", CreatedAt: now,
	}}

	stmts := BuildStatements([]Invoice{inv}, txs, fixedPolicy(now))
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if !stmts[0].TotalPayments.IsZero() || stmts[0].TransactionCount != 0 {
		t.Errorf("dangling reference must not credit any customer: %+v", stmts[0])
	}
}

func TestBuildStatementsUninvoicedSaleSettlesImmediately(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: "t1", Description: "Received 85000 payment from ABC Corp", Amount: dec("85000"), Type: Income, CreatedAt: now},
		{ID: "t2", Description: "Counter sale", Amount: dec("450"), Type: Sale, CreatedAt: now},
	}

	stmts := BuildStatements(nil, txs, fixedPolicy(now))
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].CustomerName != "ABC Corp" {
		t.Errorf("first customer = %q, want ABC Corp", stmts[0].CustomerName)
	}
	if stmts[1].CustomerName != CashSaleCustomer {
		t.Errorf("second customer = %q, want %q", stmts[1].CustomerName, CashSaleCustomer)
	}
	for _, st := range stmts {
		if !st.TotalSales.Equal(st.TotalPayments) || st.Status != StatementPaid {
			t.Errorf("un-invoiced sale must settle immediately: %+v", st)
		}
	}
}

func TestBuildStatementsDistinctEmailsDistinctCustomers(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	invoices := []Invoice{
		invoiceFor("a", "Acme", "east@acme.example", "10", now),
		invoiceFor("b", "Acme", "west@acme.example", "20", now),
	}
	stmts := BuildStatements(invoices, nil, fixedPolicy(now))
	if len(stmts) != 2 {
		t.Fatalf("same name with different emails must stay distinct, got %d statements", len(stmts))
	}
}

func TestBuildStatementsIgnoresExpensesAndPurchases(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: "t1", Description: "Bought supplies from OfficeMart", Amount: dec("300"), Type: Expense, CreatedAt: now},
		{ID: "t2", Description: "Stock purchase from Wholesale Inc", Amount: dec("900"), Type: Purchase, CreatedAt: now},
	}
	if stmts := BuildStatements(nil, txs, fixedPolicy(now)); len(stmts) != 0 {
		t.Fatalf("expenses and purchases must not produce statements, got %d", len(stmts))
	}
}

func TestCustomerFromDescription(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Received payment from ABC Corp", "ABC Corp"},
		{"Sold products to customer from XYZ last Monday", "XYZ last Monday"},
		{"payment FROM Initech.", "Initech"},
		{"Counter sale", "Cash Sale"},
		{"Transfer from", "Cash Sale"},
		{"", "Cash Sale"},
	}
	for _, tc := range cases {
		if got := CustomerFromDescription(tc.in); got != tc.want {
			t.Errorf("CustomerFromDescription(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCustomerKey(t *testing.T) {
	if got := CustomerKey("Acme", "a@b.c"); got != "Acme-a@b.c" {
		t.Errorf("CustomerKey with email = %q", got)
	}
	if got := CustomerKey("Acme", ""); got != "Acme-no-email" {
		t.Errorf("CustomerKey without email = %q", got)
	}
}
