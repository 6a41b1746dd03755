package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	IsProduction bool

	// BaseCurrencyCode is the ledger's book currency; booked amounts and every
	// statement are denominated in it.
	BaseCurrencyCode string

	// FxGainLossAccountCode is the account that absorbs unrealized FX
	// gains/losses emitted by month-end revaluation.
	FxGainLossAccountCode string

	// RevaluationThresholdMinor is the materiality threshold, in base-currency
	// minor units, below which a revaluation run is skipped.
	RevaluationThresholdMinor int64

	// Actor is the audit identity stamped on entities created by this process.
	Actor string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables override .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BASE_CURRENCY", "MXN")
	viper.SetDefault("FX_GAIN_LOSS_ACCOUNT_CODE", "FX-GL")
	viper.SetDefault("REVALUATION_THRESHOLD_MINOR", int64(100))
	viper.SetDefault("ACTOR", "system")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:               viper.GetString("PGSQL_URL"),
		IsProduction:              viper.GetBool("IS_PRODUCTION"),
		BaseCurrencyCode:          viper.GetString("BASE_CURRENCY"),
		FxGainLossAccountCode:     viper.GetString("FX_GAIN_LOSS_ACCOUNT_CODE"),
		RevaluationThresholdMinor: viper.GetInt64("REVALUATION_THRESHOLD_MINOR"),
		Actor:                     viper.GetString("ACTOR"),
	}

	if cfg.BaseCurrencyCode == "" {
		return nil, fmt.Errorf("BASE_CURRENCY must not be empty")
	}

	return cfg, nil
}
