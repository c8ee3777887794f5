package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
	"bizbooks/internal/services"
)

type statementResponse struct {
	CustomerName        string          `json:"customer_name"`
	CustomerEmail       string          `json:"customer_email,omitempty"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalPayments       decimal.Decimal `json:"total_payments"`
	BalanceAmount       decimal.Decimal `json:"balance_amount"`
	InvoiceCount        int             `json:"invoice_count"`
	TransactionCount    int             `json:"transaction_count"`
	LastInvoiceDate     *time.Time      `json:"last_invoice_date,omitempty"`
	LastTransactionDate *time.Time      `json:"last_transaction_date,omitempty"`
	Status              string          `json:"status"`
}

func toStatementResponse(st core.CustomerStatement) statementResponse {
	out := statementResponse{
		CustomerName:     st.CustomerName,
		CustomerEmail:    st.CustomerEmail,
		TotalSales:       st.TotalSales,
		TotalPayments:    st.TotalPayments,
		BalanceAmount:    st.BalanceAmount,
		InvoiceCount:     st.InvoiceCount,
		TransactionCount: st.TransactionCount,
		Status:           string(st.Status),
	}
	if !st.LastInvoiceDate.IsZero() {
		d := st.LastInvoiceDate
		out.LastInvoiceDate = &d
	}
	if !st.LastTransactionDate.IsZero() {
		d := st.LastTransactionDate
		out.LastTransactionDate = &d
	}
	return out
}

// handleListStatements recomputes statements on every request so the view
// always reflects the current books. Optional ?status= and ?q= narrow the
// listing without affecting the underlying totals.
func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	filter := services.StatementFilter{
		Status: core.StatementStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("q"),
	}
	statements, err := s.statements.FilteredStatements(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]statementResponse, len(statements))
	for i, st := range statements {
		out[i] = toStatementResponse(st)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.summaryCache.Get(summaryCacheKey); ok {
		slog.DebugContext(r.Context(), "Dashboard summary cache hit")
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.statements.DashboardSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Put(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}
