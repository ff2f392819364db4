package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/cache"
	"liveroom/internal/model"
	"liveroom/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// RoomService handles room lifecycle: creation, reads (with the passive PK
// countdown hook), activation and the deactivation cascade.
type RoomService struct {
	rooms        repository.RoomRepo
	participants repository.ParticipantRepo
	seatCache    cache.SeatCache
	broadcaster  Broadcaster
}

// NewRoomService creates a new room service
func NewRoomService(
	rooms repository.RoomRepo,
	participants repository.ParticipantRepo,
	seatCache cache.SeatCache,
) *RoomService {
	return &RoomService{
		rooms:        rooms,
		participants: participants,
		seatCache:    seatCache,
	}
}

// SetBroadcaster sets the real-time transport used for room-wide events.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom creates a room for the owner. Ownership is exclusive: an owner
// with an existing room cannot create a second one.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID, name string, isPrivate bool, password string) (*model.Room, error) {
	existing, err := s.rooms.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner room: %w", err)
	}
	if existing != nil {
		return nil, apperror.ErrRoomExists
	}

	room := &model.Room{
		ID:           "r_" + uuid.New().String()[:8],
		Name:         name,
		Owner:        ownerID,
		Moderators:   []string{},
		Status:       model.RoomInactive,
		Seats:        []model.Seat{model.NewSeat(1, model.SeatNoSpeaker)},
		SpecialSeats: map[string]model.SpecialSeat{},
		IsPrivate:    isPrivate,
		Password:     password,
		CreatedAt:    time.Now(),
	}
	room.Seats[0].Kind = model.SeatKindHost

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// GetRoom retrieves a room. When a running PK countdown has lapsed, the
// started=false transition is persisted opportunistically here; no other
// path ever writes a countdown expiry to the store.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	if b := room.PkBattle; b != nil && b.Started && b.StartedAt != nil {
		remaining := b.RemainingAt(time.Now())
		b.Remaining = remaining
		if remaining == 0 {
			b.Started = false
			err := s.rooms.SetFields(ctx, roomID, bson.M{
				"pkBattle.started":   false,
				"pkBattle.remaining": 0,
			})
			if err != nil {
				log.Error().Err(err).Str("room", roomID).Msg("failed to persist pk countdown expiry")
			}
		}
	}
	return room, nil
}

// Activate marks the room active. Idempotent.
func (s *RoomService) Activate(ctx context.Context, roomID string) error {
	log.Info().Str("room", roomID).Msg("activating room")
	return s.rooms.SetFields(ctx, roomID, bson.M{"status": model.RoomActive})
}

// Deactivate empties the room: inactive status, zero participants, no
// seats, no special seats, no PK battle. Constant rooms are exempt and
// never go inactive. The cleared state is broadcast room-wide and the seat
// cache is invalidated; both are best-effort.
func (s *RoomService) Deactivate(ctx context.Context, roomID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return apperror.ErrRoomNotFound
	}
	if room.IsConstant {
		log.Info().Str("room", roomID).Str("name", room.Name).Msg("not deactivating constant room")
		return nil
	}

	err = s.rooms.SetFields(ctx, roomID, bson.M{
		"status":            model.RoomInactive,
		"participantsCount": 0,
		"seats":             []model.Seat{},
		"specialSeats":      map[string]model.SpecialSeat{},
		"pkBattle":          nil,
		"isPkEnabled":       false,
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate room: %w", err)
	}
	if err := s.participants.DeleteByRoom(ctx, roomID); err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to purge participants")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAll("room-deactivated", map[string]string{"roomId": roomID})
	}
	if err := s.seatCache.Invalidate(ctx, roomID); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("seat cache invalidation failed")
	}
	return nil
}

// BlockUser adds the user to the room's blocked list and drops their
// presence record.
func (s *RoomService) BlockUser(ctx context.Context, roomID, userID string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if !room.HasBlocked(userID) {
		room.BlockedUsers = append(room.BlockedUsers, userID)
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	if err := s.participants.DeleteByRoomAndUser(ctx, roomID, userID); err != nil {
		log.Error().Err(err).Str("room", roomID).Str("user", userID).Msg("failed to remove blocked participant")
	}
	return room, nil
}

// UnblockUser removes the user from the room's blocked list.
func (s *RoomService) UnblockUser(ctx context.Context, roomID, userID string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	kept := room.BlockedUsers[:0]
	for _, b := range room.BlockedUsers {
		if b != userID {
			kept = append(kept, b)
		}
	}
	room.BlockedUsers = kept
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	return room, nil
}

// ListParticipants returns a page of the room's presence records.
func (s *RoomService) ListParticipants(ctx context.Context, roomID string, page, limit int) ([]model.Participant, int64, error) {
	participants, err := s.participants.ListByRoom(ctx, roomID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list participants: %w", err)
	}
	total, err := s.participants.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return participants, total, nil
}
