// Package core holds the accounting domain: transactions, invoices, customer
// statements and the invoice numbering scheme.
//
// This file contains invoice number formatting. Allocation itself lives in the
// storage layer because the counter is shared state.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// InvoiceNumberPrefix is the fixed prefix of every issued invoice number.
const InvoiceNumberPrefix = "INV-"

// FormatInvoiceNumber renders a counter value as an invoice number, zero-padded
// to at least three digits. Values past 999 simply widen; the number is never
// truncated.
//
// Examples:
//
//	FormatInvoiceNumber(1)    -> "INV-001"
//	FormatInvoiceNumber(42)   -> "INV-042"
//	FormatInvoiceNumber(1204) -> "INV-1204"
func FormatInvoiceNumber(counter int64) string {
	return fmt.Sprintf("%s%03d", InvoiceNumberPrefix, counter)
}

// ParseInvoiceNumber extracts the counter value from a formatted invoice
// number. Returns an error for anything that does not match the scheme.
func ParseInvoiceNumber(s string) (int64, error) {
	rest, ok := strings.CutPrefix(s, InvoiceNumberPrefix)
	if !ok {
		return 0, fmt.Errorf("invoice number %q missing %q prefix", s, InvoiceNumberPrefix)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invoice number %q has non-numeric counter", s)
	}
	return n, nil
}
