// Package worker exports issued invoices from SQLite to the configured
// ledger backend. It consumes AMQP sync messages and runs a periodic scan as
// a backup for anything the queue misses.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bizbooks/internal/amqp"
	"bizbooks/internal/core"
	"bizbooks/internal/ledger"
	"bizbooks/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    ledger.InvoiceAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, ledger ledger.InvoiceAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single invoice sync message from AMQP.
// A missing invoice is acked away: it was deleted after the message was
// queued and there is nothing left to export.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.InvoiceSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"invoice_number", msg.InvoiceNumber)

	inv, err := w.storage.GetInvoice(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Invoice from sync message no longer exists, skipping",
			"id", msg.ID,
			"invoice_number", msg.InvoiceNumber)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get invoice from storage: %w", err)
	}

	if err := w.exportInvoice(ctx, inv); err != nil {
		return fmt.Errorf("export invoice to ledger: %w", err)
	}
	return nil
}

// ProcessPendingInvoices exports invoices that are still waiting for sync.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingInvoices(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains pending invoices at worker startup with a larger
// batch, recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncInvoices(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending invoices for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending invoices found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending invoices on startup, processing...",
		"count", len(pending))

	synced, failed := w.exportBatch(ctx, pending)
	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncInvoices(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending invoices: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending invoices", "count", len(pending))
	w.exportBatch(ctx, pending)
	return nil
}

func (w *SyncWorker) exportBatch(ctx context.Context, pending []storage.PendingSyncInvoice) (synced, failed int) {
	for _, p := range pending {
		inv, err := w.storage.GetInvoice(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending invoice",
				"id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
			}
			failed++
			continue
		}
		if err := w.exportInvoice(ctx, inv); err != nil {
			slog.ErrorContext(ctx, "Failed to export invoice",
				"id", p.ID,
				"invoice_number", p.InvoiceNumber,
				"error", err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed
}

func (w *SyncWorker) exportInvoice(ctx context.Context, inv core.Invoice) error {
	ref, err := w.ledger.Append(ctx, inv)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, inv.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", inv.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, inv.ID); err != nil {
		// The export itself worked; the pending scan will just re-export.
		slog.ErrorContext(ctx, "Failed to mark invoice as synced", "id", inv.ID, "error", err)
	}

	slog.InfoContext(ctx, "Invoice exported to ledger",
		"id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"ledger_ref", ref,
		"total", inv.Data.Total.String())
	return nil
}
