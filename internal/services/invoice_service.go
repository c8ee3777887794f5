package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bizbooks/internal/amqp"
	"bizbooks/internal/core"
	"bizbooks/internal/storage"
)

// InvoiceService issues invoices: it allocates the next number from the
// shared counter, fills in derived fields, persists, and publishes a ledger
// sync message.
type InvoiceService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	taxRate    decimal.Decimal
	dueDays    int
}

func NewInvoiceService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, taxRatePercent, dueDays int) *InvoiceService {
	return &InvoiceService{
		storage:    storage,
		amqpClient: amqpClient,
		taxRate:    decimal.NewFromInt(int64(taxRatePercent)),
		dueDays:    dueDays,
	}
}

// IssueInvoice validates the data, reserves the next invoice number and saves
// the invoice. Allocation or storage failures abort the issue: an invoice
// must never exist without a unique number.
func (s *InvoiceService) IssueInvoice(ctx context.Context, data core.InvoiceData) (core.Invoice, error) {
	s.fillTotals(&data)
	if err := data.Validate(); err != nil {
		return core.Invoice{}, err
	}

	number, err := s.storage.AllocateInvoiceNumber(ctx)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("allocate invoice number: %w", err)
	}
	data.InvoiceNumber = number

	now := time.Now().UTC()
	if data.Date == "" {
		data.Date = now.Format("2006-01-02")
	}
	if data.DueDate == "" {
		data.DueDate = s.dueDate(data.Date, now)
	}
	s.stampProfile(ctx, &data)

	inv := core.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		Data:          data,
		CreatedAt:     now,
	}
	if err := s.storage.CreateInvoice(ctx, inv); err != nil {
		return core.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}

	// Publish async sync message (non-blocking): the worker's periodic scan
	// picks up anything the queue misses.
	if err := s.publishSyncMessage(ctx, inv.ID, inv.InvoiceNumber); err != nil {
		slog.ErrorContext(ctx, "Failed to publish invoice sync message",
			"id", inv.ID,
			"invoice_number", inv.InvoiceNumber,
			"error", err)
	}

	return inv, nil
}

// InvoiceForSale builds and issues the invoice generated for a sale
// transaction: one line item carrying the sale amount, billed to the
// counterparty named in the description.
func (s *InvoiceService) InvoiceForSale(ctx context.Context, tx core.Transaction) (core.Invoice, error) {
	data := core.InvoiceData{
		Date:   tx.Date,
		BillTo: core.BillTo{Name: core.CustomerFromDescription(tx.Description)},
		Items: []core.LineItem{{
			Description: tx.Description,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   tx.Amount,
			Amount:      tx.Amount,
		}},
	}
	return s.IssueInvoice(ctx, data)
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (core.Invoice, error) {
	return s.storage.GetInvoice(ctx, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	return s.storage.ListInvoices(ctx)
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	return s.storage.DeleteInvoice(ctx, id)
}

// fillTotals recomputes the monetary fields from the line items so clients
// cannot submit inconsistent totals. A zero TaxRate falls back to the
// configured rate.
func (s *InvoiceService) fillTotals(data *core.InvoiceData) {
	subtotal := decimal.Zero
	for _, it := range data.Items {
		subtotal = subtotal.Add(it.Amount)
	}
	if data.TaxRate.IsZero() {
		data.TaxRate = s.taxRate
	}
	data.Subtotal = subtotal
	data.TaxAmount = subtotal.Mul(data.TaxRate).Div(decimal.NewFromInt(100))
	data.Total = data.Subtotal.Add(data.TaxAmount)
}

// dueDate is the invoice date plus the configured payment window.
func (s *InvoiceService) dueDate(invoiceDate string, fallback time.Time) string {
	base, err := time.Parse("2006-01-02", invoiceDate)
	if err != nil {
		base = fallback
	}
	return base.AddDate(0, 0, s.dueDays).Format("2006-01-02")
}

// stampProfile copies the business profile onto the invoice. A missing
// profile is not an error; the invoice just goes out without letterhead.
func (s *InvoiceService) stampProfile(ctx context.Context, data *core.InvoiceData) {
	profile, err := s.storage.GetProfile(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not load business profile for invoice", "error", err)
		return
	}
	data.BusinessInfo = core.BusinessInfo{
		BusinessName:    profile.BusinessName,
		BusinessAddress: profile.BusinessAddress,
		ContactNumber:   profile.ContactNumber,
		GSTNNumber:      profile.GSTNNumber,
	}
}

func (s *InvoiceService) publishSyncMessage(ctx context.Context, id, invoiceNumber string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishInvoiceSync(ctx, id, invoiceNumber)
}
