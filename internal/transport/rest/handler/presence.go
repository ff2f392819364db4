package handler

import (
	"encoding/json"
	"liveroom/internal/service"
	"liveroom/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// PresenceHandler handles participant presence endpoints
type PresenceHandler struct {
	presenceSvc *service.PresenceService
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(presenceSvc *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceSvc: presenceSvc}
}

// JoinRequest is the request body for a join permission check
type JoinRequest struct {
	Password string `json:"password"`
}

// Join handles POST /v1/rooms/{roomId}/presence/join
func (h *PresenceHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())
	elevated := middleware.IsElevated(r.Context())

	var req JoinRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.presenceSvc.Join(r.Context(), roomID, userID, req.Password, elevated)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PresenceReport is the request body for joined/left notifications
type PresenceReport struct {
	ParticipantsCount int `json:"participantsCount"`
}

// Joined handles POST /v1/rooms/{roomId}/presence/joined
func (h *PresenceHandler) Joined(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())

	var req PresenceReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.presenceSvc.Joined(r.Context(), roomID, userID, req.ParticipantsCount); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Left handles POST /v1/rooms/{roomId}/presence/left
func (h *PresenceHandler) Left(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())

	var req PresenceReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.presenceSvc.Left(r.Context(), roomID, userID, req.ParticipantsCount); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
