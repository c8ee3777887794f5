// Package services orchestrates the accounting operations across storage,
// AMQP and the invoice counter.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bizbooks/internal/core"
	"bizbooks/internal/storage"
)

// TransactionService records transactions. Sales get an invoice generated
// before the transaction is saved so the invoice reference is never dangling.
type TransactionService struct {
	storage  *storage.SQLiteRepository
	invoices *InvoiceService
}

func NewTransactionService(storage *storage.SQLiteRepository, invoices *InvoiceService) *TransactionService {
	return &TransactionService{
		storage:  storage,
		invoices: invoices,
	}
}

// CreateTransaction validates and saves a transaction. For sales an invoice
// is generated first and linked; if generation fails the sale is still
// recorded, just without an invoice. Losing a sale over a counter hiccup is
// worse than a missing invoice.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	if tx.Type == core.Sale && tx.InvoiceID == "" && s.invoices != nil {
		inv, err := s.invoices.InvoiceForSale(ctx, tx)
		if err != nil {
			slog.WarnContext(ctx, "Invoice generation failed, saving sale without invoice",
				"transaction_id", tx.ID,
				"error", err)
		} else {
			tx.InvoiceID = inv.ID
			slog.InfoContext(ctx, "Generated invoice for sale",
				"transaction_id", tx.ID,
				"invoice_id", inv.ID,
				"invoice_number", inv.InvoiceNumber)
		}
	}

	if err := s.storage.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	return tx, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

// ListTransactionsByType narrows the listing to the given types, backing the
// sales report (income + sale) and purchase report (expense + purchase) views.
func (s *TransactionService) ListTransactionsByType(ctx context.Context, types ...core.TransactionType) ([]core.Transaction, error) {
	all, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return all, nil
	}
	out := all[:0]
	for _, tx := range all {
		for _, t := range types {
			if tx.Type == t {
				out = append(out, tx)
				break
			}
		}
	}
	return out, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	return s.storage.DeleteTransaction(ctx, id)
}
