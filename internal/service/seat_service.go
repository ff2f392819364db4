package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/cache"
	"liveroom/internal/model"
	"liveroom/internal/repository"

	"github.com/rs/zerolog/log"
)

// SeatService owns the ordered seat list of a room: assignment, eviction,
// state changes and the read-through seat cache. Writes always go to the
// store first; the cache is derived state and a cache failure never fails
// the request.
type SeatService struct {
	rooms       repository.RoomRepo
	users       repository.UserRepo
	seatCache   cache.SeatCache
	lease       cache.ReservationLease
	broadcaster Broadcaster
}

// NewSeatService creates a new seat service
func NewSeatService(
	rooms repository.RoomRepo,
	users repository.UserRepo,
	seatCache cache.SeatCache,
	lease cache.ReservationLease,
) *SeatService {
	return &SeatService{
		rooms:     rooms,
		users:     users,
		seatCache: seatCache,
		lease:     lease,
	}
}

// SetBroadcaster sets the real-time transport used for seat change events.
func (s *SeatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// HopOn assigns the user to the given seat. The occupant check here is the
// authoritative commit: a reservation lease only narrows the race window,
// so callers must treat ErrSeatOccupied as final even if they held a lease.
// A user already on another seat in the room is moved, never duplicated.
func (s *SeatService) HopOn(ctx context.Context, roomID string, seatNumber int, userID string) ([]model.Seat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	seat := room.SeatByNumber(seatNumber)
	if seat == nil {
		return nil, apperror.ErrSeatNotFound
	}
	if seat.State == model.SeatLocked {
		return nil, apperror.ErrSeatLocked
	}
	if seat.Occupied() {
		return nil, apperror.ErrSeatOccupied
	}
	if seat.Kind == model.SeatKindHost && room.Owner != userID {
		return nil, apperror.ErrNotAuthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}

	// One seat per user per room: vacate the previous seat first.
	if prev := room.SeatByUser(userID); prev != nil {
		prev.ClearOccupant()
	}

	// Snapshot of the display attributes; later profile edits do not
	// retroactively change the seat until the next hop.
	male := user.IsMale
	seat.UserID = user.ID
	seat.UserName = user.Name
	seat.UserAvatar = user.Avatar
	seat.UserFrame = user.Frame
	seat.UserIsMale = &male
	seat.State = model.SeatHasSpeaker

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// HopOff clears whichever seat the user occupies. Idempotent: a user with
// no seat is a no-op, not an error.
func (s *SeatService) HopOff(ctx context.Context, roomID, userID string) ([]model.Seat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	seat := room.SeatByUser(userID)
	if seat == nil {
		return room.Seats, nil
	}
	seat.ClearOccupant()

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// ChangeSeatState updates one seat's state. A missing seat is created on
// demand with the caller-supplied number. Setting noSpeaker deletes the
// seat from the list entirely; locking clears the occupant, since a locked
// seat must never retain one.
func (s *SeatService) ChangeSeatState(ctx context.Context, roomID string, seatNumber int, state model.SeatState) ([]model.Seat, error) {
	if !model.ValidSeatState(state) {
		return nil, apperror.ErrInvalidState
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	idx := -1
	for i := range room.Seats {
		if room.Seats[i].Number == seatNumber {
			idx = i
			break
		}
	}

	switch {
	case idx == -1:
		room.Seats = append(room.Seats, model.NewSeat(seatNumber, state))
	case state == model.SeatNoSpeaker:
		room.Seats = append(room.Seats[:idx], room.Seats[idx+1:]...)
	default:
		seat := &room.Seats[idx]
		if state == model.SeatLocked {
			seat.ClearOccupant()
		}
		seat.State = state
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// AddSeat appends a new seat for the user, or moves the user's existing
// seat when they already hold one. A number held by a different user on the
// same row kind is rejected.
func (s *SeatService) AddSeat(ctx context.Context, roomID, userID string, seat model.Seat) ([]model.Seat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	for i := range room.Seats {
		other := &room.Seats[i]
		if other.Number == seat.Number && other.IsTop == seat.IsTop && other.UserID != userID {
			return nil, apperror.ErrSeatTaken
		}
	}

	if existing := room.SeatByUser(userID); existing != nil {
		existing.Number = seat.Number
		if seat.UserName != "" {
			existing.UserName = seat.UserName
		}
		if seat.UserAvatar != "" {
			existing.UserAvatar = seat.UserAvatar
		}
		if seat.UserFrame != "" {
			existing.UserFrame = seat.UserFrame
		}
		if seat.State != "" {
			existing.State = seat.State
		}
		if seat.Kind != "" {
			existing.Kind = seat.Kind
		}
		if seat.Emoji != "" {
			existing.Emoji = seat.Emoji
			existing.EmojiDuration = seat.EmojiDuration
		}
		existing.VipEffect = seat.VipEffect
		existing.VipLevel = seat.VipLevel
		existing.IsPro = seat.IsPro
		existing.IsTop = seat.IsTop
	} else {
		if seat.State == "" {
			seat.State = model.SeatNoSpeaker
		}
		if seat.Kind == "" {
			seat.Kind = model.SeatKindRegular
		}
		seat.UserID = userID
		seat.IsActive = true
		room.Seats = append(room.Seats, seat)
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// DeleteUserSeats removes every seat occupied by the user. Used on
// leave/disconnect; a user with no seats is a no-op.
func (s *SeatService) DeleteUserSeats(ctx context.Context, roomID, userID string) ([]model.Seat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	kept := room.Seats[:0]
	for _, seat := range room.Seats {
		if seat.UserID != userID {
			kept = append(kept, seat)
		}
	}
	if len(kept) == len(room.Seats) {
		log.Warn().Str("room", roomID).Str("user", userID).Msg("user had no seats to delete")
		return room.Seats, nil
	}
	room.Seats = kept

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// ResetSeats removes every seat except seat #1. Called when a PK battle
// starts to force a clean layout.
func (s *SeatService) ResetSeats(ctx context.Context, roomID string) ([]model.Seat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	kept := room.Seats[:0]
	for _, seat := range room.Seats {
		if seat.Number <= 1 {
			kept = append(kept, seat)
		}
	}
	room.Seats = kept

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.refreshCache(ctx, roomID, room.Seats)
	return room.Seats, nil
}

// GetRoomSeats serves the seat list from the cache when present, falling
// back to the store and repopulating on a miss.
func (s *SeatService) GetRoomSeats(ctx context.Context, roomID string) ([]model.Seat, error) {
	cached, err := s.seatCache.Get(ctx, roomID)
	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("seat cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if err := s.seatCache.Set(ctx, roomID, room.Seats); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("seat cache write failed")
	}
	return room.Seats, nil
}

// Reserve places an advisory hold on the seat. A live hold by another user
// is a conflict; the caller's own hold is overwritten, last requester wins.
func (s *SeatService) Reserve(ctx context.Context, roomID string, seatNumber int, userID string) error {
	holder, err := s.lease.Get(ctx, roomID, seatNumber)
	if err != nil {
		return fmt.Errorf("failed to check reservation: %w", err)
	}
	if holder != "" && holder != userID {
		return apperror.ErrSeatReserved
	}
	return s.lease.Reserve(ctx, roomID, seatNumber, userID)
}

// GetReservation returns the current holder, or "" when none is live.
func (s *SeatService) GetReservation(ctx context.Context, roomID string, seatNumber int) (string, error) {
	return s.lease.Get(ctx, roomID, seatNumber)
}

// ClearReservation releases the hold before its TTL lapses.
func (s *SeatService) ClearReservation(ctx context.Context, roomID string, seatNumber int) error {
	return s.lease.Clear(ctx, roomID, seatNumber)
}

// refreshCache invalidates and repopulates the seat cache after a committed
// write, then pushes the new layout to connected clients. Failures are
// logged and swallowed; the store stays the source of truth.
func (s *SeatService) refreshCache(ctx context.Context, roomID string, seats []model.Seat) {
	if err := s.seatCache.Refresh(ctx, roomID, seats); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("seat cache refresh failed")
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(roomID, "seats-updated", map[string]interface{}{"seats": seats})
	}
}
