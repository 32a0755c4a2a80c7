package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/google/uuid"
)

// Config holds the settings needed to construct an HTTPClient.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string

	// Timeout applies to each request when HTTPClient is nil. Defaults to 10s.
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     logging.Logger
}

// HTTPClient is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu             sync.RWMutex
	tokenSource    func() string
	onUnauthorized []func(ctx context.Context)
}

func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: bad BaseURL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		log:     log.With("component", "backend"),
	}, nil
}

// SetTokenSource installs the function consulted for the bearer token on
// every authenticated request.
func (c *HTTPClient) SetTokenSource(fn func() string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = fn
}

// OnUnauthorized registers fn to run after any authenticated call gets a 401.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// call describes one request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any

	// token overrides the token source when set.
	token string
	// public requests carry no token from the source and never fire the
	// unauthorized hooks.
	public bool
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: query}, dest)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, dest any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body}, dest)
}

func (c *HTTPClient) doDelete(ctx context.Context, path string, dest any) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path}, dest)
}

func (c *HTTPClient) do(ctx context.Context, cl call, dest any) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if token := c.bearer(cl); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "request_id", requestID, "method", cl.method, "path", cl.path, "err", err)
		return mapError(cl.method, cl.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug(ctx, "request done", "request_id", requestID, "method", cl.method, "path", cl.path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	err = handleResponse(resp, dest)
	if err != nil && !cl.public && cl.token == "" && IsUnauthorized(err) {
		c.unauthorized(ctx)
	}
	return err
}

func (c *HTTPClient) bearer(cl call) string {
	if cl.token != "" {
		return cl.token
	}
	if cl.public {
		return ""
	}
	c.mu.RLock()
	src := c.tokenSource
	c.mu.RUnlock()
	if src == nil {
		return ""
	}
	return src()
}

func (c *HTTPClient) unauthorized(ctx context.Context) {
	c.mu.RLock()
	hooks := append([]func(context.Context){}, c.onUnauthorized...)
	c.mu.RUnlock()

	c.log.Info(ctx, "backend rejected token, running unauthorized hooks", "hooks", len(hooks))
	for _, h := range hooks {
		h(ctx)
	}
}

func handleResponse(resp *http.Response, dest any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mapError(resp.Request.Method, resp.Request.URL.Path, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, data)
	}

	if resp.StatusCode == http.StatusNoContent || dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func parseErrorResponse(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && (eb.Message != "" || eb.Error != "") {
		e.Code = eb.Error
		e.Message = eb.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Code == "" {
		e.Code = http.StatusText(statusCode)
	}
	return e
}
