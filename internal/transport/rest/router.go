package rest

import (
	"liveroom/internal/service"
	"liveroom/internal/transport/rest/handler"
	"liveroom/internal/transport/rest/middleware"
	"liveroom/internal/transport/ws"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	AdminSecret        string
	RoomService        *service.RoomService
	SeatService        *service.SeatService
	SpecialSeatService *service.SpecialSeatService
	PkService          *service.PkService
	PresenceService    *service.PresenceService
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.AdminSecret)
	roomHandler := handler.NewRoomHandler(c.RoomService)
	seatHandler := handler.NewSeatHandler(c.SeatService)
	specialHandler := handler.NewSpecialSeatHandler(c.SpecialSeatService)
	pkHandler := handler.NewPkHandler(c.PkService)
	presenceHandler := handler.NewPresenceHandler(c.PresenceService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/rooms/{roomId}", wsHandler.RoomWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	// Rooms
	authed.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/participants", roomHandler.Participants).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/blocked/{userId}", roomHandler.Block).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/blocked/{userId}", roomHandler.Unblock).Methods("DELETE", "OPTIONS")

	// Presence
	authed.HandleFunc("/rooms/{roomId}/presence/join", presenceHandler.Join).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/presence/joined", presenceHandler.Joined).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/presence/left", presenceHandler.Left).Methods("POST", "OPTIONS")

	// Seats
	authed.HandleFunc("/rooms/{roomId}/seats", seatHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats", seatHandler.Add).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/reset", seatHandler.Reset).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/{seatNumber}/hop-on", seatHandler.HopOn).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/hop-off", seatHandler.HopOff).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/{seatNumber}/state", seatHandler.ChangeState).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/users/{userId}", seatHandler.DeleteForUser).Methods("DELETE", "OPTIONS")

	// Seat reservations
	authed.HandleFunc("/rooms/{roomId}/seats/{seatNumber}/reserve", seatHandler.Reserve).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/{seatNumber}/reservation", seatHandler.GetReservation).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/seats/{seatNumber}/reservation", seatHandler.ClearReservation).Methods("DELETE", "OPTIONS")

	// Special seats
	authed.HandleFunc("/rooms/{roomId}/special-seats", specialHandler.Purchase).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/special-seats", specialHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/special-seats/{tier}/toggle", specialHandler.Toggle).Methods("POST", "OPTIONS")

	// PK battles
	authed.HandleFunc("/rooms/{roomId}/pk", pkHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/pk", pkHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/pk", pkHandler.Update).Methods("PATCH", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/pk", pkHandler.Reset).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/pk/teams/{team}/members", pkHandler.AddMember).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
