// Package http exposes the accounting API over JSON endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bizbooks/internal/cache"
	"bizbooks/internal/middleware/ratelimit"
	"bizbooks/internal/middleware/security"
	"bizbooks/internal/middleware/trace"
	"bizbooks/internal/services"
	"bizbooks/internal/storage"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	invoices     *services.InvoiceService
	statements   *services.StatementService
	repo         *storage.SQLiteRepository

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector

	// Dashboard summaries are cheap to recompute but hit on every page load,
	// so they get a short-lived cache. Statements are always computed fresh.
	summaryCache *cache.Store[services.DashboardSummary]

	shutdownOnce sync.Once
}

func NewServer(addr string, transactions *services.TransactionService, invoices *services.InvoiceService, statements *services.StatementService, repo *storage.SQLiteRepository) *Server {
	mux := http.NewServeMux()

	s := &Server{
		transactions: transactions,
		invoices:     invoices,
		statements:   statements,
		repo:         repo,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     security.NewDetector(),
		summaryCache: cache.New[services.DashboardSummary](1, time.Minute),
	}
	s.summaryCache.StartJanitor(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/invoices", s.handleCreateInvoice)
	mux.HandleFunc("GET /api/invoices", s.handleListInvoices)
	mux.HandleFunc("GET /api/invoices/{id}", s.handleGetInvoice)
	mux.HandleFunc("DELETE /api/invoices/{id}", s.handleDeleteInvoice)

	mux.HandleFunc("GET /api/statements", s.handleListStatements)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("POST /api/customers", s.handleCreateCustomer)
	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("GET /api/customers/{id}", s.handleGetCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", s.handleUpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", s.handleDeactivateCustomer)

	mux.HandleFunc("GET /api/settings/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/settings/profile", s.handleSaveProfile)

	traceMW := trace.NewMiddleware(s.detector.ExtractClientIP)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.rateLimiter.Middleware(s.detector.ExtractClientIP, nil)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           traceMW.Middleware(headersMW.Middleware(limitMW(s.withDetection(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// withDetection flags suspicious requests. They are logged and counted, not
// blocked; the rate limiter handles abusive volumes.
func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.summaryCache.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

const summaryCacheKey = "dashboard"

func (s *Server) invalidateSummary() {
	s.summaryCache.Invalidate(summaryCacheKey)
}
