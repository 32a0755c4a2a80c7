package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

const maxErrorBody = 512

// Config is shared by the provider clients.
type Config struct {
	URL    string
	APIKey string

	// Timeout applies when HTTPClient is nil. Defaults to 10s.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

func (c Config) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	t := c.Timeout
	if t == 0 {
		t = 10 * time.Second
	}
	return &http.Client{Timeout: t}
}

func (c Config) logger(provider string) logging.Logger {
	l := c.Logger
	if l == nil {
		l = logging.Discard()
	}
	return l.With("provider", provider)
}

func (c Config) validate(provider string) error {
	if c.URL == "" {
		return fmt.Errorf("%s: URL is required", provider)
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("%s: bad URL: %w", provider, err)
	}
	return nil
}

// getJSON issues a GET with query and decodes the body into dest.
func getJSON(ctx context.Context, hc *http.Client, log logging.Logger, provider, base string, query url.Values, dest any) error {
	u := base
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return mapError(provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mapError(provider, fmt.Errorf("read body: %w", err))
	}
	log.Debug(ctx, "provider call", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}
