package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// TokenSource supplies the current access token at dispatch time.
// session.Manager satisfies it.
type TokenSource interface {
	GetAccessToken() (string, bool)
}

// BFFClient dispatches requests from a client to the application's own
// backend-for-frontend surface under the /api prefix. Requests opting in via
// WithAuth carry a bearer token read from the TokenSource at call time, never
// cached at construction, so a silent refresh is honored by the next call.
//
// Unlike the server-tier Client it enforces no deadline: a hung call leaves
// the caller waiting. That mirrors the interactive tier's known gap and keeps
// cancellation in the caller's hands via ctx.
type BFFClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewBFF builds a dispatcher for the BFF surface rooted at baseURL. tokens
// may be nil for purely anonymous use.
func NewBFF(baseURL string, tokens TokenSource) *BFFClient {
	return &BFFClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

func (c *BFFClient) Get(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, opts)
}

func (c *BFFClient) Post(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, opts)
}

func (c *BFFClient) Put(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out, opts)
}

func (c *BFFClient) Patch(ctx context.Context, endpoint string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out, opts)
}

func (c *BFFClient) Delete(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out, opts)
}

func (c *BFFClient) do(ctx context.Context, method, endpoint string, body, out any, opts []RequestOption) error {
	ro := buildOptions(opts)

	req, err := newJSONRequest(ctx, method, c.baseURL+"/api"+endpoint, body, ro)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if ro.auth && c.tokens != nil {
		// Absent token: send the request bare and let the surface reject it.
		if token, ok := c.tokens.GetAccessToken(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, value := range ro.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}

	return decodeResponse(resp, out)
}
