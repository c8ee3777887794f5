package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"bizbooks/internal/amqp"
	"bizbooks/internal/cli"
	"bizbooks/internal/core"
	apphttp "bizbooks/internal/http"
	"bizbooks/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is best effort for the API: invoices are flagged pending in SQLite
	// and the worker's periodic scan exports them even when the broker is down.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without sync messages", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
		}
	}

	invoices := services.NewInvoiceService(repo, amqpClient, cfg.TaxRatePercent, cfg.InvoiceDueDays)
	transactions := services.NewTransactionService(repo, invoices)
	statements := services.NewStatementService(repo, core.StatementPolicy{
		OverdueAfter: cfg.OverdueAfter,
		Now:          time.Now,
	})

	srv := apphttp.NewServer(":"+cfg.Port, transactions, invoices, statements, repo)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting bizbooks server", "port", cfg.Port, "db_path", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
