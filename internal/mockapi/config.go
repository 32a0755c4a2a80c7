package mockapi

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/flagx"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: listen address.
//   - SecretKey: HMAC secret for signing tokens (HS256).
//   - TokenTTL: lifetime of issued tokens.
//   - ExchangeAPIKey / StockAPIKey: keys the fake providers require; empty
//     accepts any key.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr           string
	SecretKey      string
	TokenTTL       time.Duration
	ExchangeAPIKey string
	StockAPIKey    string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "dev-secret"
	c.TokenTTL = time.Hour
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("mockserver", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing secret")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "token lifetime")
	fs.StringVar(&cfg.ExchangeAPIKey, "exchange-key", cfg.ExchangeAPIKey, "required exchange provider key")
	fs.StringVar(&cfg.StockAPIKey, "stock-key", cfg.StockAPIKey, "required stock provider key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	allowed := []string{"-a", "-k", "-ttl", "-exchange-key", "-stock-key", "-l"}
	return fs.Parse(flagx.FilterArgs(args, allowed))
}
