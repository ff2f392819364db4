package handler

import (
	"encoding/json"
	"liveroom/internal/model"
	"liveroom/internal/service"
	"net/http"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc     *service.AuthService
	adminSecret string
}

// NewAuthHandler creates a new auth handler. An empty adminSecret disables
// elevated token issuance.
func NewAuthHandler(authSvc *service.AuthService, adminSecret string) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, adminSecret: adminSecret}
}

// Token handles POST /v1/auth/token. Supplying the admin password yields an
// elevated token; omitting it yields a regular one.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	elevated := false
	if req.Password != "" {
		if h.adminSecret == "" || req.Password != h.adminSecret {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		elevated = true
	}

	token, err := h.authSvc.IssueToken(req.UserID, elevated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token, UserID: req.UserID})
}
