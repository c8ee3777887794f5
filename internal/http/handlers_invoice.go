package http

import (
	"log/slog"
	"net/http"
	"time"

	"bizbooks/internal/core"
	"bizbooks/internal/log"
)

// Invoice bodies reuse the stored document shape: billTo, items, taxRate.
// Totals in the request are ignored and recomputed server-side.
type invoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	Data          core.InvoiceData `json:"data"`
	CreatedAt     time.Time        `json:"created_at"`
}

func toInvoiceResponse(inv core.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Data:          inv.Data,
		CreatedAt:     inv.CreatedAt,
	}
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var data core.InvoiceData
	if err := decodeJSON(w, r, &data); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	inv, err := s.invoices.IssueInvoice(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Invoice issued",
		log.FieldInvoiceID, inv.ID,
		log.FieldInvoiceNumber, inv.InvoiceNumber,
		log.FieldCustomerName, inv.Data.BillTo.Name,
		log.FieldComponent, log.ComponentInvoice,
		log.FieldOperation, log.OpCreate)
	writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.invoices.ListInvoices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = toInvoiceResponse(inv)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.invoices.DeleteInvoice(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
