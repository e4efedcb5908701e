package http

import (
	"net/http"

	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/auth/login. Validation failures and credential
// rejections both come back as a 400 envelope; the client treats them the
// same way.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req authapi.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if errs := service.ValidateLogin(req); len(errs) > 0 {
		writeFailure(w, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, l, err)
		return
	}
	if !resp.Success {
		httpx.WriteJSON(w, http.StatusBadRequest, resp)
		return
	}

	l.Info("login succeeded", "email", req.Email)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
