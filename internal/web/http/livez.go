package http

import (
	"net/http"
	"time"

	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
)

// LivezHandler is the liveness probe. It returns 200 whenever the process is
// up, regardless of upstream health.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authapi.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
