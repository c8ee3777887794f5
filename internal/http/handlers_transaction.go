package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
	"bizbooks/internal/log"
)

type createTransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	// InvoiceID links a payment to an already-issued invoice. When set on a
	// sale, no new invoice is generated.
	InvoiceID string `json:"invoice_id"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category,omitempty"`
	Date        string          `json:"date"`
	InvoiceID   string          `json:"invoice_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        tx.Date,
		InvoiceID:   tx.InvoiceID,
		CreatedAt:   tx.CreatedAt,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	tx, err := s.transactions.CreateTransaction(r.Context(), core.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		Date:        req.Date,
		InvoiceID:   req.InvoiceID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, tx.ID,
		log.FieldTxType, tx.Type,
		log.FieldInvoiceID, tx.InvoiceID,
		log.FieldComponent, log.ComponentTransaction,
		log.FieldOperation, log.OpCreate)
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// handleListTransactions lists transactions, optionally narrowed by
// ?type=<transaction type> or ?kind=sales|purchases. sales covers income and
// sale rows, purchases covers expense and purchase rows; these back the
// sales and purchase report views.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var types []core.TransactionType
	switch kind := q.Get("kind"); kind {
	case "":
		if t := q.Get("type"); t != "" {
			tt := core.TransactionType(t)
			if !tt.Valid() {
				writeBadRequest(w, "unknown transaction type: "+t)
				return
			}
			types = []core.TransactionType{tt}
		}
	case "sales":
		types = []core.TransactionType{core.Income, core.Sale}
	case "purchases":
		types = []core.TransactionType{core.Expense, core.Purchase}
	default:
		writeBadRequest(w, "unknown kind: "+kind+" (want sales or purchases)")
		return
	}

	txs, err := s.transactions.ListTransactionsByType(r.Context(), types...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionResponse(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transactions.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
