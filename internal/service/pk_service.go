package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/model"
	"liveroom/internal/repository"
	"time"
)

// PkService manages the embedded two-team battle. The countdown is derived
// state: it is recomputed from the start timestamp on every read and no
// goroutine ever advances it.
type PkService struct {
	rooms       repository.RoomRepo
	seatSvc     *SeatService
	broadcaster Broadcaster
}

// NewPkService creates a new PK battle service
func NewPkService(rooms repository.RoomRepo, seatSvc *SeatService) *PkService {
	return &PkService{rooms: rooms, seatSvc: seatSvc}
}

// SetBroadcaster sets the real-time transport used for battle events.
func (s *PkService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *PkService) notify(roomID string, battle *model.PkBattle) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(roomID, "pk-updated", map[string]interface{}{"pkBattle": battle})
	}
}

// Create installs a fresh battle, resetting the seat layout down to seat #1
// first. Any previous session is overwritten unconditionally.
func (s *PkService) Create(ctx context.Context, roomID string, battle *model.PkBattle) (*model.PkBattle, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	if _, err := s.seatSvc.ResetSeats(ctx, roomID); err != nil {
		return nil, fmt.Errorf("failed to reset seats: %w", err)
	}

	// ResetSeats saved the room; reload so the seat trim is not clobbered.
	room, err = s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}

	battle.Started = false
	battle.StartedAt = nil
	battle.Remaining = battle.Duration
	room.PkBattle = battle
	room.IsPkEnabled = true

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.notify(roomID, room.PkBattle)
	return room.PkBattle, nil
}

// Get returns the battle with the countdown recomputed on the copy. The
// recomputed value is not persisted here; the passive hook on generic room
// reads handles the started=false transition.
func (s *PkService) Get(ctx context.Context, roomID string) (*model.PkBattle, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if room.PkBattle == nil {
		return nil, apperror.ErrPkNotFound
	}

	battle := *room.PkBattle
	battle.Remaining = battle.RemainingAt(time.Now())
	return &battle, nil
}

// AddTeamMember appends a member to the given team's roster. No
// de-duplication is performed; repeated calls append repeated entries.
func (s *PkService) AddTeamMember(ctx context.Context, roomID, team string, member model.PkTeamMember) (*model.PkBattle, error) {
	if team != model.PkTeamBlue && team != model.PkTeamRed {
		return nil, apperror.ErrInvalidTeam
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if room.PkBattle == nil || !room.IsPkEnabled {
		return nil, apperror.ErrPkNotFound
	}

	if team == model.PkTeamBlue {
		room.PkBattle.BlueTeam.Members = append(room.PkBattle.BlueTeam.Members, member)
	} else {
		room.PkBattle.RedTeam.Members = append(room.PkBattle.RedTeam.Members, member)
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.notify(roomID, room.PkBattle)
	return room.PkBattle, nil
}

// Update merges the scalar fields of the command into the battle, creating
// an empty session when none exists. The first started=true stamps the
// start timestamp. Roster mutation is not representable here; it goes
// through AddTeamMember.
func (s *PkService) Update(ctx context.Context, roomID string, upd model.PkUpdate) (*model.PkBattle, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if room.PkBattle == nil {
		room.PkBattle = &model.PkBattle{}
	}
	battle := room.PkBattle

	if upd.Started != nil && *upd.Started && battle.StartedAt == nil {
		now := time.Now()
		battle.StartedAt = &now
	}
	if upd.Started != nil {
		battle.Started = *upd.Started
	}
	if upd.Duration != nil {
		battle.Duration = *upd.Duration
	}
	if upd.SeatsCount != nil {
		battle.SeatsCount = *upd.SeatsCount
	}
	if upd.MvpUser != nil {
		battle.MvpUser = upd.MvpUser
	}
	if upd.MvpScore != nil {
		battle.MvpScore = *upd.MvpScore
	}
	if upd.BluePoints != nil {
		battle.BlueTeam.Points = *upd.BluePoints
	}
	if upd.RedPoints != nil {
		battle.RedTeam.Points = *upd.RedPoints
	}
	if upd.Remaining != nil {
		battle.Remaining = *upd.Remaining
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	s.notify(roomID, battle)
	return battle, nil
}

// Reset nulls the session and clears the battle flag.
func (s *PkService) Reset(ctx context.Context, roomID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return apperror.ErrRoomNotFound
	}

	room.PkBattle = nil
	room.IsPkEnabled = false

	if err := s.rooms.Update(ctx, room); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	s.notify(roomID, nil)
	return nil
}
