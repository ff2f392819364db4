package handler

import (
	"encoding/json"
	"liveroom/internal/service"
	"liveroom/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// SpecialSeatHandler handles premium seat subscription endpoints
type SpecialSeatHandler struct {
	specialSvc *service.SpecialSeatService
}

// NewSpecialSeatHandler creates a new special seat handler
func NewSpecialSeatHandler(specialSvc *service.SpecialSeatService) *SpecialSeatHandler {
	return &SpecialSeatHandler{specialSvc: specialSvc}
}

// PurchaseRequest is the request body for a tier purchase
type PurchaseRequest struct {
	Tier         string `json:"tier"`
	DurationDays int    `json:"durationDays"`
}

// Purchase handles POST /v1/rooms/{roomId}/special-seats
func (h *SpecialSeatHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seats, err := h.specialSvc.Purchase(r.Context(), roomID, userID, req.Tier, req.DurationDays)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"specialSeats": seats})
}

// Toggle handles POST /v1/rooms/{roomId}/special-seats/{tier}/toggle
func (h *SpecialSeatHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	seats, err := h.specialSvc.Toggle(r.Context(), vars["roomId"], vars["tier"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"specialSeats": seats})
}

// List handles GET /v1/rooms/{roomId}/special-seats
func (h *SpecialSeatHandler) List(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	seats, err := h.specialSvc.List(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"specialSeats": seats})
}
