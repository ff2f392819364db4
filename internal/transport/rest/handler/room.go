package handler

import (
	"encoding/json"
	"liveroom/internal/service"
	"liveroom/internal/transport/rest/middleware"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	roomSvc *service.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoomRequest is the request body for room creation
type CreateRoomRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
	Password  string `json:"password"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), userID, req.Name, req.IsPrivate, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Get handles GET /v1/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	room, err := h.roomSvc.GetRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Participants handles GET /v1/rooms/{roomId}/participants
func (h *RoomHandler) Participants(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	participants, total, err := h.roomSvc.ListParticipants(r.Context(), roomID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participants": participants,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// Block handles POST /v1/rooms/{roomId}/blocked/{userId}
func (h *RoomHandler) Block(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	room, err := h.roomSvc.BlockUser(r.Context(), vars["roomId"], vars["userId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"blockedUsers": room.BlockedUsers})
}

// Unblock handles DELETE /v1/rooms/{roomId}/blocked/{userId}
func (h *RoomHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	room, err := h.roomSvc.UnblockUser(r.Context(), vars["roomId"], vars["userId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"blockedUsers": room.BlockedUsers})
}
