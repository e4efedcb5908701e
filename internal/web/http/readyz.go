package http

import (
	"net/http"
	"time"

	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
)

// ReadyzHandler is the readiness probe. Degraded when no upstream base URL is
// configured or, if a persistent store is attached, when it fails to respond.
func ReadyzHandler(startTime time.Time, version, upstreamBaseURL string, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if upstreamBaseURL == "" {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, authapi.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
