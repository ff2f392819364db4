package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/model"
	"liveroom/internal/repository"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// PresenceService reconciles the external transport's join/leave signals
// with the room aggregate. Signals can arrive duplicated or out of order,
// so every handler here is idempotent and the reported participant count is
// trusted over any locally derived one.
type PresenceService struct {
	rooms        repository.RoomRepo
	users        repository.UserRepo
	participants repository.ParticipantRepo
	seatSvc      *SeatService
	roomSvc      *RoomService
}

// NewPresenceService creates a new presence service
func NewPresenceService(
	rooms repository.RoomRepo,
	users repository.UserRepo,
	participants repository.ParticipantRepo,
	seatSvc *SeatService,
	roomSvc *RoomService,
) *PresenceService {
	return &PresenceService{
		rooms:        rooms,
		users:        users,
		participants: participants,
		seatSvc:      seatSvc,
		roomSvc:      roomSvc,
	}
}

// Joined handles the transport's join notification. The room activates when
// its owner arrives; the participant count is set to the reported value,
// floored at one because the notifier itself is present. An elevated
// observer entering a foreign room leaves no presence record.
func (s *PresenceService) Joined(ctx context.Context, roomID, userID string, reportedCount int) error {
	user, err := s.users.SetCurrentRoom(ctx, userID, roomID)
	if err != nil {
		return fmt.Errorf("failed to update current room: %w", err)
	}
	if user == nil {
		return apperror.ErrUserNotFound
	}

	if user.OwnedRoom == roomID {
		if err := s.roomSvc.Activate(ctx, roomID); err != nil {
			return fmt.Errorf("failed to activate room: %w", err)
		}
	}

	count := reportedCount
	if count < 1 {
		count = 1
	}
	if err := s.rooms.SetFields(ctx, roomID, bson.M{"participantsCount": count}); err != nil {
		return fmt.Errorf("failed to update participant count: %w", err)
	}

	// hidden observer
	if user.IsElevated && user.OwnedRoom != roomID {
		return nil
	}
	if err := s.participants.Ensure(ctx, roomID, userID); err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}
	return nil
}

// Join is the authorization step for entering a room: blocked check, role
// resolution, empty-room and private-room gates, then the presence upsert.
func (s *PresenceService) Join(ctx context.Context, roomID, userID, password string, isElevated bool) (*model.JoinResult, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	if !isElevated {
		blocked, err := s.users.IsBlocked(ctx, room.Owner, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check blocked: %w", err)
		}
		if blocked || room.HasBlocked(userID) {
			return nil, apperror.ErrUserBlocked
		}
	}

	role := model.RoleMember
	switch {
	case room.Owner == userID || isElevated:
		role = model.RoleHost
	case room.IsModerator(userID):
		role = model.RoleModerator
	}

	if room.Status != model.RoomActive && role == model.RoleMember {
		return nil, apperror.ErrRoomEmpty
	}
	if room.IsPrivate && role != model.RoleHost {
		if room.Password != "" && room.Password != password {
			return nil, apperror.ErrIncorrectPassword
		}
	}

	err = s.participants.Upsert(ctx, &model.Participant{
		RoomID:   roomID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert participant: %w", err)
	}
	return &model.JoinResult{Role: role, OwnerID: room.Owner}, nil
}

// Left handles the transport's leave notification: pointer cleared, count
// floored at zero, presence records and seats removed. When the room
// empties, every seat is cleared, the PK battle is nulled and deactivation
// runs in the background; the caller's response does not wait for it.
func (s *PresenceService) Left(ctx context.Context, roomID, userID string, reportedCount int) error {
	count := reportedCount
	if count < 0 {
		count = 0
	}

	user, err := s.users.ClearCurrentRoom(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to clear current room: %w", err)
	}
	if user == nil {
		return apperror.ErrUserNotFound
	}

	if err := s.rooms.SetFields(ctx, roomID, bson.M{"participantsCount": count}); err != nil {
		return fmt.Errorf("failed to update participant count: %w", err)
	}
	if err := s.participants.DeleteByRoomAndUser(ctx, roomID, userID); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	// User having no seats is fine; anything else is logged, not fatal.
	if _, err := s.seatSvc.DeleteUserSeats(ctx, roomID, userID); err != nil {
		log.Error().Err(err).Str("room", roomID).Str("user", userID).Msg("failed to delete user seats")
	}

	if count == 0 {
		err := s.rooms.SetFields(ctx, roomID, bson.M{
			"seats":       []model.Seat{},
			"pkBattle":    nil,
			"isPkEnabled": false,
		})
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("failed to clear seats of empty room")
		}
		// The cache must not outlive the seats it mirrors. Deactivation also
		// invalidates, but constant rooms skip deactivation entirely.
		s.seatSvc.refreshCache(ctx, roomID, []model.Seat{})

		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.roomSvc.Deactivate(bg, roomID); err != nil {
				log.Error().Err(err).Str("room", roomID).Msg("room deactivation failed")
			}
		}()
	}
	return nil
}
