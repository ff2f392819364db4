package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/model"
	"liveroom/internal/repository"
	"time"
)

// SpecialSeatService manages the per-room premium seat subscriptions.
// Expiration is discovered lazily on purchase/toggle; there is no background
// sweep, and List returns stored entries verbatim.
type SpecialSeatService struct {
	rooms repository.RoomRepo
	users repository.UserRepo
}

// NewSpecialSeatService creates a new special seat service
func NewSpecialSeatService(rooms repository.RoomRepo, users repository.UserRepo) *SpecialSeatService {
	return &SpecialSeatService{rooms: rooms, users: users}
}

// Purchase buys (or extends) the tier subscription for the room. An
// unexpired subscription is extended additively from its current expiration;
// a lapsed or missing one restarts from now. The activation flag is left
// untouched.
func (s *SpecialSeatService) Purchase(ctx context.Context, roomID, userID, tier string, durationDays int) (map[string]model.SpecialSeat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if !model.ValidTier(tier) {
		return nil, apperror.ErrInvalidTier
	}

	if durationDays == 0 {
		durationDays = 7
	}
	price, ok := model.SpecialSeatPrices[durationDays]
	if !ok {
		price = model.SpecialSeatPrices[7]
		durationDays = 7
	}

	// Insufficient funds surfaces as the balance capability's own error.
	if err := s.users.DeductBalance(ctx, userID, price); err != nil {
		return nil, err
	}

	now := time.Now()
	extension := time.Duration(durationDays) * 24 * time.Hour
	if room.SpecialSeats == nil {
		room.SpecialSeats = make(map[string]model.SpecialSeat)
	}

	sub, exists := room.SpecialSeats[tier]
	if exists && !sub.IsExpiredAt(now) {
		sub.ExpirationDate = sub.ExpirationDate.Add(extension)
	} else {
		sub.ExpirationDate = now.Add(extension)
	}
	sub.Purchased = true
	room.SpecialSeats[tier] = sub

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	return room.SpecialSeats, nil
}

// Toggle flips the tier's activation. A subscription found expired at toggle
// time is corrected to inactive/unpurchased, the correction is persisted,
// and the call fails with ErrSubscriptionExpired.
func (s *SpecialSeatService) Toggle(ctx context.Context, roomID, tier string) (map[string]model.SpecialSeat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if !model.ValidTier(tier) {
		return nil, apperror.ErrInvalidTier
	}

	sub, exists := room.SpecialSeats[tier]
	if !exists || !sub.Purchased {
		return nil, apperror.ErrTierNotPurchased
	}

	if sub.IsExpiredAt(time.Now()) {
		sub.IsActive = false
		sub.Purchased = false
		room.SpecialSeats[tier] = sub
		if err := s.rooms.Update(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to save room: %w", err)
		}
		return nil, apperror.ErrSubscriptionExpired
	}

	sub.IsActive = !sub.IsActive
	room.SpecialSeats[tier] = sub

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}
	return room.SpecialSeats, nil
}

// List returns the room's tier map as stored. Entries that expired but were
// never re-read through purchase/toggle come back verbatim; callers must not
// assume active implies unexpired.
func (s *SpecialSeatService) List(ctx context.Context, roomID string) (map[string]model.SpecialSeat, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, apperror.ErrRoomNotFound
	}
	if room.SpecialSeats == nil {
		return map[string]model.SpecialSeat{}, nil
	}
	return room.SpecialSeats, nil
}
