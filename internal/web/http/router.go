// Package http exposes the web tier's API surface: the /api/auth endpoints
// that front the upstream identity API, plus health and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

// Pinger is the optional persistent-store health probe for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	upstreamBaseURL string
	buildVersion    string
	startTime       time.Time
	logger          *slog.Logger

	AuthService *service.AuthService
	Store       Pinger // optional
}

func NewRouter(upstreamBaseURL, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:             http.NewServeMux(),
		upstreamBaseURL: upstreamBaseURL,
		buildVersion:    buildVersion,
		startTime:       time.Now(),
		logger:          logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential-accepting endpoints get the strict profile to slow down
	// guessing; token maintenance gets the moderate one.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/refresh-token",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.upstreamBaseURL, r.Store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", httpx.MetricsHandler())
}
