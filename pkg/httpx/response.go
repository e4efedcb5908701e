package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status code. Responses
// carrying session material must not be cached, so no-store is always set.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets headers preventing intermediaries from caching the response.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrBodyTooLarge reports a request body exceeding the DecodeJSON limit.
var ErrBodyTooLarge = errors.New("request body too large")

const maxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into v, capping the body size and
// rejecting trailing garbage after the JSON value.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return err
	}
	// A second decode succeeding means there was more than one JSON value.
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
