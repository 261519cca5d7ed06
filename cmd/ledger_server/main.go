package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sinembank-ledger/internal/api"
	"github.com/sinembank-ledger/internal/config"
	"github.com/sinembank-ledger/internal/logger"
	"github.com/sinembank-ledger/internal/platform/rates"
	"github.com/sinembank-ledger/internal/platform/store"
	"github.com/sinembank-ledger/internal/registry"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the snapshot store and restore persisted state. A missing
	// or unreadable snapshot is a cold start, not a startup failure.
	snapshots := store.NewSnapshotStore(log, cfg.Store.DataFile)
	reg := registry.New(log, snapshots, registry.Options{
		BaseCurrency:              cfg.Bank.BaseCurrency,
		DefaultSavingsRate:        cfg.Bank.DefaultSavingsRate,
		LargeTransactionThreshold: cfg.Bank.LargeTransactionThreshold,
	})
	if err := reg.Restore(); err != nil {
		log.Error("Failed to restore registry", "error", err)
		os.Exit(1)
	}

	// Initialize the exchange-rate client (informational only)
	rateClient := rates.NewClient(log, cfg.Rates.URL, cfg.Rates.Timeout)

	// Initialize REST server
	server := api.NewServer(log, cfg, reg, rateClient)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no mutation races the final snapshot
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Best-effort final snapshot
	if err := reg.Persist(); err != nil {
		log.Error("Failed to write final snapshot", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
