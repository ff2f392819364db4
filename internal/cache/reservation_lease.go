package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReservationLease gives a client a short exclusive hold on one seat before
// the authoritative hop-on commit. It is advisory only: the occupant check
// inside the seat registry remains the correctness boundary, and callers
// must treat a failed commit as authoritative even while holding a lease.
type ReservationLease interface {
	// Reserve stores the hold, unconditionally overwriting any prior value.
	Reserve(ctx context.Context, roomID string, seatNumber int, userID string) error
	// Get returns the current holder, or "" when absent or lapsed.
	Get(ctx context.Context, roomID string, seatNumber int) (string, error)
	// Clear releases the hold early.
	Clear(ctx context.Context, roomID string, seatNumber int) error
}

type reservationLease struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReservationLease creates a lease with the given TTL.
func NewReservationLease(client *redis.Client, ttl time.Duration) ReservationLease {
	return &reservationLease{client: client, ttl: ttl}
}

func (l *reservationLease) key(roomID string, seatNumber int) string {
	return fmt.Sprintf("seat_reservation:%s:%d", roomID, seatNumber)
}

func (l *reservationLease) Reserve(ctx context.Context, roomID string, seatNumber int, userID string) error {
	return l.client.Set(ctx, l.key(roomID, seatNumber), userID, l.ttl).Err()
}

func (l *reservationLease) Get(ctx context.Context, roomID string, seatNumber int) (string, error) {
	holder, err := l.client.Get(ctx, l.key(roomID, seatNumber)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return holder, nil
}

func (l *reservationLease) Clear(ctx context.Context, roomID string, seatNumber int) error {
	return l.client.Del(ctx, l.key(roomID, seatNumber)).Err()
}
