package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/httpx"
)

// envelope is the failure shape every auth endpoint shares.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeFailure(w http.ResponseWriter, code int, message string, errs ...string) {
	httpx.WriteJSON(w, code, envelope{Success: false, Message: message, Errors: errs})
}

// writeUpstreamError maps dispatch failures to gateway statuses. Only timeout
// and transport faults reach this point; domain rejections arrive as
// envelopes from the service layer.
func writeUpstreamError(w http.ResponseWriter, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, apiclient.ErrTimeout):
		l.Warn("upstream request timed out", "error", err)
		writeFailure(w, http.StatusGatewayTimeout, "The identity service took too long to respond")
	default:
		var transportErr *apiclient.TransportError
		if errors.As(err, &transportErr) {
			l.Warn("upstream unreachable", "error", err)
			writeFailure(w, http.StatusBadGateway, "The identity service is currently unavailable")
			return
		}
		l.Error("auth request failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
