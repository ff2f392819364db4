package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"liveroom/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeatCache is the read-through cache for a room's seat list. It is derived
// state: writes always go to the store first, and every mutation invalidates
// by delete-then-set rather than overwriting in place, so a reader racing a
// slower committed write never keeps a stale entry alive.
type SeatCache interface {
	Get(ctx context.Context, roomID string) ([]model.Seat, error)
	Set(ctx context.Context, roomID string, seats []model.Seat) error
	Invalidate(ctx context.Context, roomID string) error
	// Refresh deletes the entry and repopulates it in one call.
	Refresh(ctx context.Context, roomID string, seats []model.Seat) error
}

type seatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeatCache creates a seat cache with the given entry TTL.
func NewSeatCache(client *redis.Client, ttl time.Duration) SeatCache {
	return &seatCache{client: client, ttl: ttl}
}

func (c *seatCache) key(roomID string) string {
	return fmt.Sprintf("room_seats:%s", roomID)
}

func (c *seatCache) Get(ctx context.Context, roomID string) ([]model.Seat, error) {
	data, err := c.client.Get(ctx, c.key(roomID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var seats []model.Seat
	if err := json.Unmarshal([]byte(data), &seats); err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []model.Seat{}
	}
	return seats, nil
}

func (c *seatCache) Set(ctx context.Context, roomID string, seats []model.Seat) error {
	if seats == nil {
		seats = []model.Seat{}
	}
	data, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(roomID), data, c.ttl).Err()
}

func (c *seatCache) Invalidate(ctx context.Context, roomID string) error {
	return c.client.Del(ctx, c.key(roomID)).Err()
}

func (c *seatCache) Refresh(ctx context.Context, roomID string, seats []model.Seat) error {
	if err := c.Invalidate(ctx, roomID); err != nil {
		return err
	}
	return c.Set(ctx, roomID, seats)
}
