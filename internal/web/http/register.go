package http

import (
	"net/http"

	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/authapi"
	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/auth/register. Field validation runs locally;
// invalid payloads never reach the upstream API.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req authapi.RegistrationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if errs := service.ValidateRegistration(req); len(errs) > 0 {
		writeFailure(w, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	resp, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, l, err)
		return
	}
	if !resp.Success {
		httpx.WriteJSON(w, http.StatusBadRequest, resp)
		return
	}

	l.Info("registration accepted", "email", req.Email)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}
