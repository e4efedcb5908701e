package web_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	webhttp "github.com/404talk/webapp/internal/web/http"
	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/authclient"
	"github.com/404talk/webapp/pkg/cryptox"
	"github.com/404talk/webapp/pkg/session"
	"github.com/404talk/webapp/pkg/session/sqlitestore"
)

/*
 * End-to-end tests for the web tier: a fake upstream identity API, the real
 * router with its full middleware chain, and the real client stack (session
 * manager over a SQLite store, BFF dispatcher, auth flows) driving it.
 */

const (
	demoEmail    = "demo@404talk.com"
	demoPassword = "Demo123!"
	demoSecret   = "e2e-demo-secret-0123456789abcdef"

	upstreamAPIKey = "e2e-upstream-key"
)

// fakeUpstream is a minimal stand-in for the identity API. It accepts one
// hard-coded credential pair and tracks revoked refresh tokens.
type fakeUpstream struct {
	t       *testing.T
	revoked map[string]bool
}

func (f *fakeUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /auth/refresh-token", f.refresh)
	mux.HandleFunc("POST /auth/logout", f.logout)
	return mux
}

func (f *fakeUpstream) checkAPIKey(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get(apiclient.DefaultAPIKeyHeader) != upstreamAPIKey {
		http.Error(w, `{"message":"missing api key"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *fakeUpstream) login(w http.ResponseWriter, r *http.Request) {
	if !f.checkAPIKey(w, r) {
		return
	}

	var req authapi.LoginRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))

	if req.Email != "alice@404talk.com" || req.Password != "Wonder1and!" {
		http.Error(w, `{"message":"Invalid email or password"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(f.t, w, authapi.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token: &authapi.TokenData{
			AccessToken:        "up-access-1",
			RefreshToken:       "up-refresh-1",
			AccessTokenExpiry:  time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
			RefreshTokenExpiry: time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339),
			TokenType:          "Bearer",
		},
		User: &authapi.UserData{
			ID:          "u-alice",
			Email:       "alice@404talk.com",
			DisplayName: "Alice",
			IsActive:    true,
			Role:        "moderator",
		},
	})
}

func (f *fakeUpstream) refresh(w http.ResponseWriter, r *http.Request) {
	if !f.checkAPIKey(w, r) {
		return
	}

	var req authapi.RefreshTokenRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))

	if req.RefreshToken != "up-refresh-1" || f.revoked[req.RefreshToken] {
		http.Error(w, `{"message":"refresh token revoked"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(f.t, w, authapi.RefreshTokenResponse{
		Success: true,
		Message: "Token refreshed",
		Token: &authapi.TokenData{
			AccessToken:       "up-access-2",
			AccessTokenExpiry: time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
			TokenType:         "Bearer",
		},
	})
}

func (f *fakeUpstream) logout(w http.ResponseWriter, r *http.Request) {
	if !f.checkAPIKey(w, r) {
		return
	}

	var req authapi.LogoutRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.revoked[req.RefreshToken] = true

	writeJSON(f.t, w, authapi.LogoutResponse{Success: true, Message: "Logged out"})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// startWebTier brings up the fake upstream and the real router, returning the
// BFF base URL.
func startWebTier(t *testing.T) string {
	t.Helper()

	upstream := &fakeUpstream{t: t, revoked: make(map[string]bool)}
	upstreamSrv := httptest.NewServer(upstream.handler())
	t.Cleanup(upstreamSrv.Close)

	hash, err := cryptox.HashPassword(demoPassword)
	require.NoError(t, err)

	router := webhttp.NewRouter(upstreamSrv.URL, "e2e", slog.New(slog.DiscardHandler))
	router.AuthService = &service.AuthService{
		Upstream: apiclient.New(apiclient.Config{
			BaseURL: upstreamSrv.URL,
			APIKey:  upstreamAPIKey,
			Timeout: 5 * time.Second,
		}),
		Demo: service.NewDemoService(demoEmail, hash, demoSecret),
	}
	router.ApplyRoutes()

	webSrv := httptest.NewServer(router)
	t.Cleanup(webSrv.Close)
	return webSrv.URL
}

// newPersistentClient builds the client stack over a SQLite-backed credential
// store at dbPath, the way a desktop client with a durable profile would.
func newPersistentClient(t *testing.T, baseURL, dbPath string) (*authclient.Client, *session.Manager) {
	t.Helper()

	store, err := sqlitestore.New(dbPath, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	sessions := session.NewManager(store)
	return authclient.New(apiclient.NewBFF(baseURL, sessions), sessions), sessions
}

func sessionDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.db")
}
