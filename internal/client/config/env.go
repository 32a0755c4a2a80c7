package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. Process variables win over the .env file.
const (
	EnvBackendURL     = "CA_BACKEND_URL"
	EnvRequestTimeout = "CA_REQUEST_TIMEOUT"
	EnvExchangeURL    = "CA_EXCHANGE_URL"
	EnvExchangeAPIKey = "EXCHANGE_API_KEY"
	EnvStockURL       = "CA_STOCK_URL"
	EnvStockAPIKey    = "STOCK_API_KEY"
	EnvNewsDedupe     = "CA_NEWS_DEDUPE"
	EnvDBPath         = "CA_DB_PATH"
	EnvLogFile        = "CA_LOG_FILE"
	EnvLogLevel       = "CA_LOG_LEVEL"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays cfg with values from cfg.EnvFile (when it exists) and
// the process environment.
func parseEnv(cfg *Config) error {
	fileVars := map[string]string{}
	if cfg.EnvFile != "" {
		vars, err := godotenv.Read(cfg.EnvFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("config: read env file %s: %w", cfg.EnvFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}
	return applyEnv(cfg, lookup)
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	str(EnvBackendURL, &cfg.BackendURL)
	str(EnvExchangeURL, &cfg.ExchangeURL)
	str(EnvExchangeAPIKey, &cfg.ExchangeAPIKey)
	str(EnvStockURL, &cfg.StockURL)
	str(EnvStockAPIKey, &cfg.StockAPIKey)
	str(EnvDBPath, &cfg.DBPath)
	str(EnvLogFile, &cfg.LogFile)
	str(EnvLogLevel, &cfg.LogLevel)

	if v, ok := lookup(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(EnvNewsDedupe); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvNewsDedupe, err)
		}
		cfg.NewsDedupe = b
	}
	return nil
}
