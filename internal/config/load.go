package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name,
// auto-detecting the file type
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type
// specification (e.g. "yaml", "json")
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base
// name. This is the preferred method for environment-specific configuration.
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment
// variables in layers: defaults, then config file values, then environment
// variables, then validation.
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	// Config paths in order of priority
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv()

	savingsRate, err := decimal.NewFromString(v.GetString("BANK_DEFAULT_SAVINGS_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BANK_DEFAULT_SAVINGS_RATE: %w", err)
	}
	fraudThreshold, err := decimal.NewFromString(v.GetString("BANK_LARGE_TRANSACTION_THRESHOLD"))
	if err != nil {
		return nil, fmt.Errorf("invalid BANK_LARGE_TRANSACTION_THRESHOLD: %w", err)
	}

	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Store: StoreConfig{
			DataFile: v.GetString("STORE_DATA_FILE"),
		},
		Bank: BankConfig{
			BaseCurrency:              v.GetString("BANK_BASE_CURRENCY"),
			DefaultSavingsRate:        savingsRate,
			LargeTransactionThreshold: fraudThreshold,
		},
		Rates: RatesConfig{
			URL:     v.GetString("RATES_URL"),
			Timeout: v.GetDuration("RATES_TIMEOUT"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with sensible default values, used
// when no configuration file or environment variables are present
func setDefaults(v *viper.Viper) {
	// HTTP server defaults - tuned for typical web application workloads
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Snapshot store defaults
	v.SetDefault("STORE_DATA_FILE", "bank_data.json")

	// Bank policy defaults. The fraud threshold is the documented fixed
	// 20k cutoff; the savings rate matches the historical default.
	v.SetDefault("BANK_BASE_CURRENCY", "TRY")
	v.SetDefault("BANK_DEFAULT_SAVINGS_RATE", "0.15")
	v.SetDefault("BANK_LARGE_TRANSACTION_THRESHOLD", "20000")

	// Exchange-rate client defaults
	v.SetDefault("RATES_URL", "https://api.exchangerate.host/latest")
	v.SetDefault("RATES_TIMEOUT", 5*time.Second)

	// Logging defaults - 'info' balances information against noise
	v.SetDefault("LOG_LEVEL", "info")

	// Application defaults - development-friendly baseline configuration
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "sinembank-ledger")

	// Worker pool defaults for the interest sweep
	v.SetDefault("WORKER_POOL_SIZE", 10)
}
