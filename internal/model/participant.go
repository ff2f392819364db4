package model

import "time"

type ParticipantRole string

const (
	RoleMember    ParticipantRole = "member"
	RoleModerator ParticipantRole = "moderator"
	RoleHost      ParticipantRole = "host"
)

// Participant is the durable presence record for a (room, user) pair.
// At most one record exists per pair; the repository enforces it via upsert.
type Participant struct {
	RoomID   string          `json:"roomId" bson:"roomId"`
	UserID   string          `json:"userId" bson:"userId"`
	Role     ParticipantRole `json:"role" bson:"role"`
	JoinedAt time.Time       `json:"joinedAt" bson:"joinedAt"`
}

// JoinResult is returned by the presence join authorization step.
type JoinResult struct {
	Role    ParticipantRole `json:"role"`
	OwnerID string          `json:"ownerId"`
}
