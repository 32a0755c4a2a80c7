package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from zero so the file only overrides what it names.
type fileConfig struct {
	BackendURL     *string         `json:"backend_url" yaml:"backend_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`

	ExchangeURL    *string `json:"exchange_url" yaml:"exchange_url"`
	ExchangeAPIKey *string `json:"exchange_api_key" yaml:"exchange_api_key"`
	StockURL       *string `json:"stock_url" yaml:"stock_url"`
	StockAPIKey    *string `json:"stock_api_key" yaml:"stock_api_key"`

	RateLookback *int `json:"rate_lookback" yaml:"rate_lookback"`
	HistoryDays  *int `json:"history_days" yaml:"history_days"`

	ProviderRPS   *float64 `json:"provider_rps" yaml:"provider_rps"`
	ProviderBurst *int     `json:"provider_burst" yaml:"provider_burst"`
	FanOutLimit   *int     `json:"fan_out_limit" yaml:"fan_out_limit"`

	NewsPageSize *int    `json:"news_page_size" yaml:"news_page_size"`
	NewsSort     *string `json:"news_sort" yaml:"news_sort"`
	NewsDedupe   *bool   `json:"news_dedupe" yaml:"news_dedupe"`

	DBPath   *string `json:"db_path" yaml:"db_path"`
	LogFile  *string `json:"log_file" yaml:"log_file"`
	LogLevel *string `json:"log_level" yaml:"log_level"`
	EnvFile  *string `json:"env_file" yaml:"env_file"`
}

// parseFile overlays cfg with the file at path. The format follows the
// extension: .yaml/.yml is YAML, anything else JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setIf(&cfg.BackendURL, fc.BackendURL)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	setIf(&cfg.ExchangeURL, fc.ExchangeURL)
	setIf(&cfg.ExchangeAPIKey, fc.ExchangeAPIKey)
	setIf(&cfg.StockURL, fc.StockURL)
	setIf(&cfg.StockAPIKey, fc.StockAPIKey)
	setIf(&cfg.RateLookback, fc.RateLookback)
	setIf(&cfg.HistoryDays, fc.HistoryDays)
	setIf(&cfg.ProviderRPS, fc.ProviderRPS)
	setIf(&cfg.ProviderBurst, fc.ProviderBurst)
	setIf(&cfg.FanOutLimit, fc.FanOutLimit)
	setIf(&cfg.NewsPageSize, fc.NewsPageSize)
	setIf(&cfg.NewsSort, fc.NewsSort)
	setIf(&cfg.NewsDedupe, fc.NewsDedupe)
	setIf(&cfg.DBPath, fc.DBPath)
	setIf(&cfg.LogFile, fc.LogFile)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.EnvFile, fc.EnvFile)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
