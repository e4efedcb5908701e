package apiclient

import "net/url"

// RequestOption customizes a single dispatch.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
	query   url.Values
	auth    bool
}

func buildOptions(opts []RequestOption) requestOptions {
	ro := requestOptions{headers: map[string]string{}, query: url.Values{}}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// WithHeader adds a header to the request. Caller headers merge over the
// dispatcher defaults and win on conflict.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) { ro.headers[key] = value }
}

// WithQuery appends a query parameter to the request URL.
func WithQuery(key, value string) RequestOption {
	return func(ro *requestOptions) { ro.query.Add(key, value) }
}

// WithAuth opts the request into bearer authentication. Only the BFF
// dispatcher honors it; the token is read from the session at call time so a
// refreshed token is picked up on the next dispatch.
func WithAuth() RequestOption {
	return func(ro *requestOptions) { ro.auth = true }
}
