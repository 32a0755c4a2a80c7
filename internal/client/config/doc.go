// Package config loads runtime configuration for the companyanalyzer client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are YAML, everything else is JSON.
//  3. The .env file named by EnvFile, then process environment variables.
//  4. Command-line flags, which override everything above.
//
// # File schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	backend_url: http://localhost:8080/api
//	request_timeout: 10s
//	exchange_api_key: "..."
//	rate_lookback: 6
//	news_sort: sim
//
// Provider keys are usually kept out of files and supplied through
// EXCHANGE_API_KEY and STOCK_API_KEY.
package config
