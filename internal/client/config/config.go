package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/flagx"
)

// Config holds runtime settings for the companyanalyzer client.
type Config struct {
	BackendURL     string
	RequestTimeout time.Duration

	ExchangeURL    string
	ExchangeAPIKey string
	StockURL       string
	StockAPIKey    string

	// RateLookback is how many earlier days the rate resolver may try after
	// the requested one.
	RateLookback int
	HistoryDays  int

	// ProviderRPS and ProviderBurst pace per-day series lookups.
	ProviderRPS   float64
	ProviderBurst int

	// FanOutLimit caps concurrent enrichment lookups; 0 means unbounded.
	FanOutLimit int

	NewsPageSize int
	NewsSort     string
	NewsDedupe   bool

	DBPath   string
	LogFile  string
	LogLevel string
	EnvFile  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8080/api"
	c.RequestTimeout = 10 * time.Second

	c.ExchangeURL = "https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON"
	c.StockURL = "https://apis.data.go.kr/1160100/service/GetStockSecuritiesInfoService/getStockPriceInfo"

	c.RateLookback = 6
	c.HistoryDays = 30

	c.ProviderRPS = 5
	c.ProviderBurst = 1
	c.FanOutLimit = 8

	c.NewsPageSize = 10
	c.NewsSort = "date"

	c.DBPath = "companyanalyzer.db"
	c.LogFile = "companyanalyzer.log"
	c.LogLevel = "info"
	c.EnvFile = ".env"
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("config: backend URL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive")
	}
	if c.RateLookback < 0 {
		return fmt.Errorf("config: rate lookback must not be negative")
	}
	if c.HistoryDays <= 0 || c.HistoryDays > 90 {
		return fmt.Errorf("config: history days must be in 1..90")
	}
	if c.ProviderRPS <= 0 || c.ProviderBurst <= 0 {
		return fmt.Errorf("config: provider pacing must be positive")
	}
	if c.NewsPageSize <= 0 || c.NewsPageSize > 100 {
		return fmt.Errorf("config: news page size must be in 1..100")
	}
	if c.NewsSort != "date" && c.NewsSort != "sim" {
		return fmt.Errorf("config: news sort must be date or sim, got %q", c.NewsSort)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the optional config file
// (-c/-config), then the environment (.env file and process variables), then
// the flags in args. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFile(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
