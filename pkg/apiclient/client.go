// Package apiclient provides the two HTTP dispatchers every authenticated
// request flows through: Client for the server tier talking to the upstream
// identity/domain API, and BFFClient for clients talking to the
// application's own /api surface. Both map failures onto the same error
// taxonomy: ErrTimeout, *TransportError and *HTTPError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds upstream calls from the server tier.
const DefaultTimeout = 30 * time.Second

// DefaultAPIKeyHeader is the header the upstream expects the service
// credential in when no override is configured.
const DefaultAPIKeyHeader = "X-API-Key"

// Config configures the server-tier dispatcher.
type Config struct {
	// BaseURL is the upstream API root, e.g. "https://api.404talk.com/api".
	BaseURL string
	// DefaultHeaders are applied to every request. Content-Type defaults to
	// application/json when not supplied.
	DefaultHeaders map[string]string
	// APIKey, when set, is attached to every request under APIKeyHeader.
	APIKey string
	// APIKeyHeader names the service credential header. Defaults to
	// DefaultAPIKeyHeader.
	APIKeyHeader string
	// Timeout cancels in-flight requests and yields ErrTimeout. Defaults to
	// DefaultTimeout.
	Timeout time.Duration
}

// Client dispatches requests from the server tier to the upstream API. It
// attaches service credentials and enforces a hard deadline per request.
type Client struct {
	baseURL        string
	defaultHeaders map[string]string
	timeout        time.Duration
	httpClient     *http.Client
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	if cfg.APIKey != "" {
		name := cfg.APIKeyHeader
		if name == "" {
			name = DefaultAPIKeyHeader
		}
		headers[name] = cfg.APIKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		defaultHeaders: headers,
		timeout:        timeout,
		httpClient:     &http.Client{},
	}
}

// BaseURL reports the configured upstream root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, opts)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out, opts)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out, opts)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, opts []RequestOption) error {
	ro := buildOptions(opts)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newJSONRequest(ctx, method, c.baseURL+endpoint, body, ro)
	if err != nil {
		return err
	}
	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range ro.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s %s after %s: %w", method, endpoint, c.timeout, ErrTimeout)
		}
		return &TransportError{Err: err}
	}

	return decodeResponse(resp, out)
}

// isTimeout distinguishes our deadline firing from other transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// newJSONRequest builds a request with an optional JSON-encoded body and the
// per-request query parameters applied.
func newJSONRequest(ctx context.Context, method, rawURL string, body any, ro requestOptions) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if len(ro.query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + ro.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

// decodeResponse maps non-2xx responses to *HTTPError and otherwise decodes
// the body into out when requested.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
