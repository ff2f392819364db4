package handler

import (
	"encoding/json"
	"liveroom/internal/model"
	"liveroom/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// PkHandler handles PK battle endpoints
type PkHandler struct {
	pkSvc *service.PkService
}

// NewPkHandler creates a new PK battle handler
func NewPkHandler(pkSvc *service.PkService) *PkHandler {
	return &PkHandler{pkSvc: pkSvc}
}

// Create handles POST /v1/rooms/{roomId}/pk
func (h *PkHandler) Create(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var battle model.PkBattle
	if err := json.NewDecoder(r.Body).Decode(&battle); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if battle.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	created, err := h.pkSvc.Create(r.Context(), roomID, &battle)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/rooms/{roomId}/pk
func (h *PkHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	battle, err := h.pkSvc.Get(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, battle)
}

// AddMemberRequest is the request body for adding a PK team member
type AddMemberRequest struct {
	UserID   string `json:"userId"`
	Charisma int    `json:"charisma"`
}

// AddMember handles POST /v1/rooms/{roomId}/pk/teams/{team}/members
func (h *PkHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	battle, err := h.pkSvc.AddTeamMember(r.Context(), vars["roomId"], vars["team"], model.PkTeamMember{
		UserID:   req.UserID,
		Charisma: req.Charisma,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, battle)
}

// Update handles PATCH /v1/rooms/{roomId}/pk
func (h *PkHandler) Update(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var upd model.PkUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	battle, err := h.pkSvc.Update(r.Context(), roomID, upd)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, battle)
}

// Reset handles DELETE /v1/rooms/{roomId}/pk
func (h *PkHandler) Reset(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	if err := h.pkSvc.Reset(r.Context(), roomID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
