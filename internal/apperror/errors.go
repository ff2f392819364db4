// Package apperror defines the typed failures surfaced by the room engine.
// Every error carries a stable machine-readable code and an HTTP status so
// the transport layer can map failures without string matching. Cache-layer
// failures are never represented here: they are logged and swallowed.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a user-facing typed failure.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// New returns a typed error with the given code, HTTP status and message.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrRoomNotFound = New("ROOM_NOT_FOUND", http.StatusNotFound, "room not found")
	ErrSeatNotFound = New("SEAT_NOT_FOUND", http.StatusNotFound, "seat not found")
	ErrPkNotFound   = New("PK_NOT_FOUND", http.StatusNotFound, "no pk battle found")
	ErrUserNotFound = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")

	ErrSeatOccupied = New("SEAT_OCCUPIED", http.StatusConflict, "seat is already occupied")
	ErrSeatTaken    = New("SEAT_TAKEN", http.StatusConflict, "seat number already taken")
	ErrSeatReserved = New("SEAT_RESERVED", http.StatusConflict, "seat is reserved by another user")
	ErrRoomExists   = New("ROOM_EXISTS", http.StatusConflict, "owner already has a room")

	ErrSeatLocked    = New("SEAT_LOCKED", http.StatusForbidden, "seat is locked")
	ErrNotAuthorized = New("NOT_AUTHORIZED", http.StatusForbidden, "only the room owner can occupy the host seat")
	ErrUserBlocked   = New("USER_BLOCKED", http.StatusForbidden, "user is blocked from this room")

	ErrRoomEmpty         = New("ROOM_EMPTY", http.StatusUnauthorized, "room is empty")
	ErrIncorrectPassword = New("INCORRECT_PASSWORD", http.StatusUnauthorized, "incorrect password")

	ErrInvalidTeam  = New("INVALID_TEAM", http.StatusBadRequest, "invalid team, must be blue or red")
	ErrInvalidTier  = New("INVALID_TIER", http.StatusBadRequest, "invalid special seat tier")
	ErrInvalidState = New("INVALID_STATE", http.StatusBadRequest, "invalid seat state")

	ErrTierNotPurchased    = New("TIER_NOT_PURCHASED", http.StatusNotFound, "special seat not purchased")
	ErrSubscriptionExpired = New("SUBSCRIPTION_EXPIRED", http.StatusBadRequest, "special seat has expired")

	ErrInsufficientFunds = New("INSUFFICIENT_FUNDS", http.StatusPaymentRequired, "insufficient balance")
)

// AsError unwraps err into an *Error when it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
