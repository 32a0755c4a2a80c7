package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags overlays cfg with command-line flags. Flags left unset keep the
// value produced by the earlier stages.
//
//	-a string     backend base URL
//	-t duration   request timeout
//	-d string     session database path
//	-l string     log level (debug|info|warn|error)
//	-log-file     log file path
//	-lookback     rate lookback budget in days
//	-history      default history length in days
//	-news-size    news page size
//	-news-sort    date|sim
//	-news-dedupe  drop repeated news links across pages
//	-c, -config   config file (consumed earlier, accepted here)
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("companyanalyzer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path")
	fs.IntVar(&cfg.RateLookback, "lookback", cfg.RateLookback, "rate lookback budget in days")
	fs.IntVar(&cfg.HistoryDays, "history", cfg.HistoryDays, "history length in days")
	fs.IntVar(&cfg.NewsPageSize, "news-size", cfg.NewsPageSize, "news page size")
	fs.StringVar(&cfg.NewsSort, "news-sort", cfg.NewsSort, "news sort (date|sim)")
	fs.BoolVar(&cfg.NewsDedupe, "news-dedupe", cfg.NewsDedupe, "drop repeated news links")

	var ignored string
	fs.StringVar(&ignored, "c", "", "config file")
	fs.StringVar(&ignored, "config", "", "config file")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: flags: %w", err)
	}
	return nil
}
