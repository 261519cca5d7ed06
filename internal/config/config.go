// Package config provides configuration structures and validation for the
// application. It handles environment-based configuration for the HTTP
// server, the snapshot store, bank policy parameters, the exchange-rate
// client and the worker pool.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration. Each field represents
// one subsystem's settings and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Store       StoreConfig
	Bank        BankConfig
	Rates       RatesConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StoreConfig contains snapshot store configuration
type StoreConfig struct {
	DataFile string // Path of the JSON snapshot file
}

// BankConfig contains ledger policy parameters
type BankConfig struct {
	BaseCurrency              string          // Currency used when a request names none
	DefaultSavingsRate        decimal.Decimal // Rate for savings accounts created without one
	LargeTransactionThreshold decimal.Decimal // Fraud-heuristic cutoff in currency units
}

// RatesConfig contains exchange-rate client configuration
type RatesConfig struct {
	URL     string
	Timeout time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers for the interest sweep
}

// validate performs validation of all configuration values, ensuring they
// meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Store config
	if c.Store.DataFile == "" {
		validationErrors = append(validationErrors, "STORE_DATA_FILE is required")
	}

	// Validate Bank config
	if len(c.Bank.BaseCurrency) != 3 {
		validationErrors = append(validationErrors, "BANK_BASE_CURRENCY must be a 3-letter code")
	}
	if c.Bank.DefaultSavingsRate.IsNegative() {
		validationErrors = append(validationErrors, "BANK_DEFAULT_SAVINGS_RATE cannot be negative")
	}
	if !c.Bank.LargeTransactionThreshold.IsPositive() {
		validationErrors = append(validationErrors, "BANK_LARGE_TRANSACTION_THRESHOLD must be greater than 0")
	}

	// Validate Rates config
	if c.Rates.URL == "" {
		validationErrors = append(validationErrors, "RATES_URL is required")
	}
	if c.Rates.Timeout <= 0 {
		validationErrors = append(validationErrors, "RATES_TIMEOUT must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
