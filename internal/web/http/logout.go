package http

import (
	"net/http"
	"strings"

	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/auth/logout. The access token must ride in the
// Authorization header; the refresh token to revoke rides in the body.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	accessToken, ok := bearerToken(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authorization header with bearer token is required")
		return
	}

	var req authapi.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	resp, err := h.AuthService.Logout(r.Context(), accessToken, req)
	if err != nil {
		writeUpstreamError(w, l, err)
		return
	}
	if !resp.Success {
		httpx.WriteJSON(w, http.StatusBadRequest, resp)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	return auth[len(prefix):], true
}
