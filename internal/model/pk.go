package model

import "time"

const (
	PkTeamBlue = "blue"
	PkTeamRed  = "red"
)

// PkTeamMember is one roster entry. Repeated joins append repeated entries;
// accumulation of charisma rows is the current product behavior.
type PkTeamMember struct {
	UserID   string `json:"userId" bson:"userId"`
	Charisma int    `json:"charisma" bson:"charisma"`
}

// PkTopMember is a cached top-3 display entry.
type PkTopMember struct {
	UserID string `json:"userId" bson:"userId"`
	Image  string `json:"image" bson:"image"`
}

// PkTeam is one side of the battle.
type PkTeam struct {
	Members []PkTeamMember `json:"members" bson:"members"`
	Top3    []PkTopMember  `json:"top3" bson:"top3"`
	Points  int            `json:"points" bson:"points"`
}

// PkMvpUser is the cached MVP display entry.
type PkMvpUser struct {
	UserID string `json:"userId" bson:"userId"`
	Image  string `json:"image" bson:"image"`
}

// PkBattle is the embedded two-team contest. Remaining is derived: it is
// recomputed from StartedAt on every read and never advanced by a timer.
type PkBattle struct {
	Duration   int        `json:"duration" bson:"duration"` // seconds
	SeatsCount int        `json:"seatsCount" bson:"seatsCount"`
	MvpUser    *PkMvpUser `json:"mvpUser,omitempty" bson:"mvpUser"`
	MvpScore   int        `json:"mvpScore" bson:"mvpScore"`
	BlueTeam   PkTeam     `json:"blueTeam" bson:"blueTeam"`
	RedTeam    PkTeam     `json:"redTeam" bson:"redTeam"`
	Started    bool       `json:"started" bson:"started"`
	StartedAt  *time.Time `json:"startedAt,omitempty" bson:"startedAt"`
	Remaining  int        `json:"remaining" bson:"remaining"`
}

// RemainingAt computes the countdown at the given time, clamped at zero.
// When the battle has not started it returns the stored Remaining value.
func (b *PkBattle) RemainingAt(now time.Time) int {
	if !b.Started || b.StartedAt == nil {
		return b.Remaining
	}
	elapsed := int(now.Sub(*b.StartedAt) / time.Second)
	if remaining := b.Duration - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// PkUpdate is the partial-update command for a battle. Only scalar fields
// are representable; roster mutation goes through AddTeamMember. Nil
// pointers mean "leave unchanged".
type PkUpdate struct {
	Duration   *int       `json:"duration,omitempty"`
	SeatsCount *int       `json:"seatsCount,omitempty"`
	MvpUser    *PkMvpUser `json:"mvpUser,omitempty"`
	MvpScore   *int       `json:"mvpScore,omitempty"`
	BluePoints *int       `json:"bluePoints,omitempty"`
	RedPoints  *int       `json:"redPoints,omitempty"`
	Started    *bool      `json:"started,omitempty"`
	Remaining  *int       `json:"remaining,omitempty"`
}
