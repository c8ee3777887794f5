package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
	"bizbooks/internal/storage"
)

// StatementFilter narrows the statement listing. Zero value matches everything.
type StatementFilter struct {
	Status core.StatementStatus
	Search string
}

func (f StatementFilter) matches(st core.CustomerStatement) bool {
	if f.Status != "" && st.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(st.CustomerName), q) &&
			!strings.Contains(strings.ToLower(st.CustomerEmail), q) {
			return false
		}
	}
	return true
}

// StatementService derives per-customer statements from the stored invoices
// and transactions. Statements are recomputed on every call, never persisted.
type StatementService struct {
	storage *storage.SQLiteRepository
	policy  core.StatementPolicy
}

func NewStatementService(storage *storage.SQLiteRepository, policy core.StatementPolicy) *StatementService {
	return &StatementService{
		storage: storage,
		policy:  policy,
	}
}

func (s *StatementService) CustomerStatements(ctx context.Context) ([]core.CustomerStatement, error) {
	invoices, err := s.storage.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.BuildStatements(invoices, transactions, s.policy), nil
}

// FilteredStatements applies the listing filter after the full fold so
// totals and statuses are always computed from the complete books.
func (s *StatementService) FilteredStatements(ctx context.Context, filter StatementFilter) ([]core.CustomerStatement, error) {
	statements, err := s.CustomerStatements(ctx)
	if err != nil {
		return nil, err
	}
	if filter == (StatementFilter{}) {
		return statements, nil
	}
	out := statements[:0]
	for _, st := range statements {
		if filter.matches(st) {
			out = append(out, st)
		}
	}
	return out, nil
}

// DashboardSummary aggregates all statements into the dashboard view.
type DashboardSummary struct {
	TotalSales         decimal.Decimal `json:"total_sales"`
	TotalPayments      decimal.Decimal `json:"total_payments"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CustomerCount      int             `json:"customer_count"`
	PaidCustomers      int             `json:"paid_customers"`
	PendingCustomers   int             `json:"pending_customers"`
	OverdueCustomers   int             `json:"overdue_customers"`
}

func (s *StatementService) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	statements, err := s.CustomerStatements(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		TotalSales:         decimal.Zero,
		TotalPayments:      decimal.Zero,
		OutstandingBalance: decimal.Zero,
		CustomerCount:      len(statements),
	}
	for _, st := range statements {
		summary.TotalSales = summary.TotalSales.Add(st.TotalSales)
		summary.TotalPayments = summary.TotalPayments.Add(st.TotalPayments)
		summary.OutstandingBalance = summary.OutstandingBalance.Add(st.BalanceAmount)
		switch st.Status {
		case core.StatementPaid:
			summary.PaidCustomers++
		case core.StatementOverdue:
			summary.OverdueCustomers++
		default:
			summary.PendingCustomers++
		}
	}
	return summary, nil
}
