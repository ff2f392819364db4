package handler

import (
	"encoding/json"
	"liveroom/internal/model"
	"liveroom/internal/service"
	"liveroom/internal/transport/rest/middleware"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// SeatHandler handles seat registry and reservation endpoints
type SeatHandler struct {
	seatSvc *service.SeatService
}

// NewSeatHandler creates a new seat handler
func NewSeatHandler(seatSvc *service.SeatService) *SeatHandler {
	return &SeatHandler{seatSvc: seatSvc}
}

func seatNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["seatNumber"])
	if err != nil {
		return 0, false
	}
	return n, true
}

// List handles GET /v1/rooms/{roomId}/seats
func (h *SeatHandler) List(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	seats, err := h.seatSvc.GetRoomSeats(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// HopOn handles POST /v1/rooms/{roomId}/seats/{seatNumber}/hop-on
func (h *SeatHandler) HopOn(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())
	n, ok := seatNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seat number")
		return
	}

	seats, err := h.seatSvc.HopOn(r.Context(), roomID, n, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// HopOff handles POST /v1/rooms/{roomId}/seats/hop-off
func (h *SeatHandler) HopOff(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())

	seats, err := h.seatSvc.HopOff(r.Context(), roomID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// ChangeStateRequest is the request body for a seat state change
type ChangeStateRequest struct {
	State model.SeatState `json:"state"`
}

// ChangeState handles PUT /v1/rooms/{roomId}/seats/{seatNumber}/state
func (h *SeatHandler) ChangeState(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	n, ok := seatNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seat number")
		return
	}

	var req ChangeStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seats, err := h.seatSvc.ChangeSeatState(r.Context(), roomID, n, req.State)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// Add handles POST /v1/rooms/{roomId}/seats
func (h *SeatHandler) Add(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())

	var seat model.Seat
	if err := json.NewDecoder(r.Body).Decode(&seat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seats, err := h.seatSvc.AddSeat(r.Context(), roomID, userID, seat)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"seats": seats})
}

// DeleteForUser handles DELETE /v1/rooms/{roomId}/seats/users/{userId}
func (h *SeatHandler) DeleteForUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	seats, err := h.seatSvc.DeleteUserSeats(r.Context(), vars["roomId"], vars["userId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// Reset handles POST /v1/rooms/{roomId}/seats/reset
func (h *SeatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	seats, err := h.seatSvc.ResetSeats(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": seats})
}

// Reserve handles POST /v1/rooms/{roomId}/seats/{seatNumber}/reserve
func (h *SeatHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	userID := middleware.GetUserID(r.Context())
	n, ok := seatNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seat number")
		return
	}

	if err := h.seatSvc.Reserve(r.Context(), roomID, n, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reserved"})
}

// GetReservation handles GET /v1/rooms/{roomId}/seats/{seatNumber}/reservation
func (h *SeatHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	n, ok := seatNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seat number")
		return
	}

	holder, err := h.seatSvc.GetReservation(r.Context(), roomID, n)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": holder})
}

// ClearReservation handles DELETE /v1/rooms/{roomId}/seats/{seatNumber}/reservation
func (h *SeatHandler) ClearReservation(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	n, ok := seatNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seat number")
		return
	}

	if err := h.seatSvc.ClearReservation(r.Context(), roomID, n); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
