// Package ledger defines the outbound port for exporting issued invoices to
// an external ledger, plus a factory over the available backends.
package ledger

import (
	"context"

	"bizbooks/internal/core"
)

// Ports for outbound adapters.
type (
	// InvoiceAppender appends an issued invoice to the external ledger and
	// returns a backend-specific row reference.
	InvoiceAppender interface {
		Append(ctx context.Context, inv core.Invoice) (rowRef string, err error)
	}
)
