package model

import "time"

type RoomStatus string

const (
	RoomActive   RoomStatus = "active"
	RoomInactive RoomStatus = "inactive"
)

// MaxModerators caps the moderator set per room.
const MaxModerators = 5

// Room is the root aggregate for a live room. Seats, special seats and the
// PK battle are embedded so a single document update covers every mutation.
type Room struct {
	ID                string                 `json:"id" bson:"_id"`
	Name              string                 `json:"name" bson:"name"`
	Owner             string                 `json:"owner" bson:"owner"`
	Moderators        []string               `json:"moderators" bson:"moderators"`
	Status            RoomStatus             `json:"status" bson:"status"`
	ParticipantsCount int                    `json:"participantsCount" bson:"participantsCount"`
	Seats             []Seat                 `json:"seats" bson:"seats"`
	SpecialSeats      map[string]SpecialSeat `json:"specialSeats" bson:"specialSeats"`
	PkBattle          *PkBattle              `json:"pkBattle,omitempty" bson:"pkBattle"`
	IsPkEnabled       bool                   `json:"isPkEnabled" bson:"isPkEnabled"`
	IsPrivate         bool                   `json:"isPrivate" bson:"isPrivate"`
	Password          string                 `json:"-" bson:"password"`
	BlockedUsers      []string               `json:"-" bson:"blockedUsers"`
	IsConstant        bool                   `json:"isConstant" bson:"isConstant"`
	ConstantRank      int                    `json:"constantRank" bson:"constantRank"`
	CreatedAt         time.Time              `json:"createdAt" bson:"createdAt"`
}

// SeatByNumber returns the seat with the given number, or nil.
func (r *Room) SeatByNumber(n int) *Seat {
	for i := range r.Seats {
		if r.Seats[i].Number == n {
			return &r.Seats[i]
		}
	}
	return nil
}

// SeatByUser returns the seat occupied by the given user, or nil.
func (r *Room) SeatByUser(userID string) *Seat {
	for i := range r.Seats {
		if r.Seats[i].UserID == userID && r.Seats[i].UserID != "" {
			return &r.Seats[i]
		}
	}
	return nil
}

// HasBlocked reports whether the user is on the room's blocked list.
func (r *Room) HasBlocked(userID string) bool {
	for _, b := range r.BlockedUsers {
		if b == userID {
			return true
		}
	}
	return false
}

// IsModerator reports whether the user is in the room's moderator set.
func (r *Room) IsModerator(userID string) bool {
	for _, m := range r.Moderators {
		if m == userID {
			return true
		}
	}
	return false
}
