package http

import (
	"net/http"

	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/auth/refresh-token.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req authapi.RefreshTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}
	if req.RefreshToken == "" {
		writeFailure(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	resp, err := h.AuthService.Refresh(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, l, err)
		return
	}
	if !resp.Success {
		httpx.WriteJSON(w, http.StatusUnauthorized, resp)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
