package core

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatementPaid    StatementStatus = "paid"
	StatementPending StatementStatus = "pending"
	StatementOverdue StatementStatus = "overdue"
)

// CashSaleCustomer is the synthetic customer used for sale transactions whose
// description carries no counterparty name.
const CashSaleCustomer = "Cash Sale"

type (
	StatementStatus string

	// CustomerStatement is a derived summary of one customer's activity.
	// It is recomputed on every view and never persisted.
	CustomerStatement struct {
		CustomerName        string
		CustomerEmail       string
		TotalSales          decimal.Decimal
		TotalPayments       decimal.Decimal
		BalanceAmount       decimal.Decimal
		InvoiceCount        int
		TransactionCount    int
		LastInvoiceDate     time.Time
		LastTransactionDate time.Time
		Status              StatementStatus
	}

	// StatementPolicy carries the product policy knobs of statement
	// classification. The thresholds are choices, not derived rules, so they
	// stay configurable instead of being hard-coded in the fold.
	StatementPolicy struct {
		// OverdueAfter is how long after the last activity an unpaid balance
		// turns overdue.
		OverdueAfter time.Duration
		// Now is the clock; defaults to time.Now.
		Now func() time.Time
	}
)

// DefaultOverdueAfter mirrors the product's 30-day overdue threshold.
const DefaultOverdueAfter = 30 * 24 * time.Hour

func DefaultStatementPolicy() StatementPolicy {
	return StatementPolicy{OverdueAfter: DefaultOverdueAfter, Now: time.Now}
}

// CustomerKey derives the grouping key of a statement. Two customers with the
// same name but different emails are distinct; a missing email collapses to a
// fixed placeholder so the key stays stable.
func CustomerKey(name, email string) string {
	if email == "" {
		email = "no-email"
	}
	return name + "-" + email
}

// CustomerFromDescription extracts a counterparty name from a free-text sale
// description by taking everything after the first word "from". Descriptions
// without one fall back to CashSaleCustomer. Free-text matching is a known
// limitation carried over from the product: typos produce duplicate customers.
func CustomerFromDescription(description string) string {
	words := strings.Fields(description)
	for i, w := range words {
		if strings.EqualFold(strings.Trim(w, ".,;:"), "from") && i+1 < len(words) {
			name := strings.Join(words[i+1:], " ")
			name = strings.Trim(name, ".,;: ")
			if name != "" {
				return name
			}
			break
		}
	}
	return CashSaleCustomer
}

// BuildStatements folds invoices and sale/income transactions into one
// statement per distinct customer key.
//
// Invoices contribute to totalSales; transactions referencing an invoice
// credit that invoice's customer with a payment; un-invoiced sales count as a
// sale settled on the spot (sale and payment in equal measure). Output order
// is first-encounter order; callers may re-sort.
//
// The fold is pure over its inputs: it never fails, it only skips. An invoice
// without a billTo name is dropped with a warning so one bad row never blocks
// the whole view, and a transaction pointing at an unknown invoice is excluded
// from all totals.
func BuildStatements(invoices []Invoice, transactions []Transaction, policy StatementPolicy) []CustomerStatement {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	if policy.OverdueAfter <= 0 {
		policy.OverdueAfter = DefaultOverdueAfter
	}

	byKey := make(map[string]*CustomerStatement)
	order := make([]string, 0, len(invoices))
	invoiceKey := make(map[string]string, len(invoices))

	entry := func(key, name, email string) *CustomerStatement {
		st, ok := byKey[key]
		if !ok {
			st = &CustomerStatement{
				CustomerName:  name,
				CustomerEmail: email,
				TotalSales:    decimal.Zero,
				TotalPayments: decimal.Zero,
			}
			byKey[key] = st
			order = append(order, key)
		}
		return st
	}

	for _, inv := range invoices {
		name := strings.TrimSpace(inv.Data.BillTo.Name)
		if name == "" {
			slog.Warn("Skipping invoice without customer name",
				"invoice_id", inv.ID,
				"invoice_number", inv.InvoiceNumber)
			continue
		}
		email := strings.TrimSpace(inv.Data.BillTo.Email)
		key := CustomerKey(name, email)
		invoiceKey[inv.ID] = key

		st := entry(key, name, email)
		st.TotalSales = st.TotalSales.Add(inv.Data.Total)
		st.InvoiceCount++
		if inv.CreatedAt.After(st.LastInvoiceDate) {
			st.LastInvoiceDate = inv.CreatedAt
		}
	}

	for _, tx := range transactions {
		if tx.Type != Sale && tx.Type != Income {
			continue
		}

		if tx.InvoiceID != "" {
			// Payment against a known invoice; a dangling reference is
			// excluded from every customer's totals.
			key, ok := invoiceKey[tx.InvoiceID]
			if !ok {
				continue
			}
			st := byKey[key]
			st.TotalPayments = st.TotalPayments.Add(tx.Amount)
			st.TransactionCount++
			if tx.CreatedAt.After(st.LastTransactionDate) {
				st.LastTransactionDate = tx.CreatedAt
			}
			continue
		}

		// Un-invoiced sale: counts as a sale settled immediately.
		name := CustomerFromDescription(tx.Description)
		st := entry(CustomerKey(name, ""), name, "")
		st.TotalSales = st.TotalSales.Add(tx.Amount)
		st.TotalPayments = st.TotalPayments.Add(tx.Amount)
		st.TransactionCount++
		if tx.CreatedAt.After(st.LastTransactionDate) {
			st.LastTransactionDate = tx.CreatedAt
		}
	}

	now := policy.Now()
	out := make([]CustomerStatement, 0, len(order))
	for _, key := range order {
		st := byKey[key]
		st.BalanceAmount = st.TotalSales.Sub(st.TotalPayments)
		st.Status = classify(st, now, policy.OverdueAfter)
		out = append(out, *st)
	}
	return out
}

func classify(st *CustomerStatement, now time.Time, overdueAfter time.Duration) StatementStatus {
	if st.BalanceAmount.Sign() <= 0 {
		return StatementPaid
	}
	last := st.LastInvoiceDate
	if st.LastTransactionDate.After(last) {
		last = st.LastTransactionDate
	}
	if last.IsZero() {
		// No recorded activity dates: nothing to age against.
		return StatementPending
	}
	if now.Sub(last) > overdueAfter {
		return StatementOverdue
	}
	return StatementPending
}
