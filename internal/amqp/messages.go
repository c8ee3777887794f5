package amqp

import (
	"encoding/json"
	"time"
)

// InvoiceSyncMessage is the lightweight queue payload for ledger export.
// It carries only identifiers; the worker fetches the full invoice from the
// database so the queue never holds stale invoice data.
type InvoiceSyncMessage struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewInvoiceSyncMessage creates a new sync message for the given invoice
func NewInvoiceSyncMessage(id, invoiceNumber string) *InvoiceSyncMessage {
	return &InvoiceSyncMessage{
		ID:            id,
		InvoiceNumber: invoiceNumber,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvoiceSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvoiceSyncMessageFromJSON creates a message from JSON bytes
func InvoiceSyncMessageFromJSON(data []byte) (*InvoiceSyncMessage, error) {
	var msg InvoiceSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
