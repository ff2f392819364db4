package model

type SeatState string

const (
	SeatNoSpeaker  SeatState = "noSpeaker"
	SeatHasSpeaker SeatState = "hasSpeaker"
	SeatMuted      SeatState = "muted"
	SeatLocked     SeatState = "locked"
)

// ValidSeatState reports whether s is one of the four seat states.
func ValidSeatState(s SeatState) bool {
	switch s {
	case SeatNoSpeaker, SeatHasSpeaker, SeatMuted, SeatLocked:
		return true
	}
	return false
}

type SeatKind string

const (
	SeatKindRegular SeatKind = "regular"
	SeatKindHost    SeatKind = "host"
	SeatKindVip     SeatKind = "vip"
	SeatKindKing    SeatKind = "king"
	SeatKindBoss    SeatKind = "boss"
)

// Seat is one microphone position in a room. The occupant display fields are
// a snapshot taken at hop-on time, not live references to the user document.
type Seat struct {
	Number        int       `json:"seatNumber" bson:"seatNumber"`
	UserID        string    `json:"userId,omitempty" bson:"userId"`
	UserName      string    `json:"userName" bson:"userName"`
	UserAvatar    string    `json:"userAvatar" bson:"userAvatar"`
	UserFrame     string    `json:"userFrame" bson:"userFrame"`
	UserIsMale    *bool     `json:"userIsMale" bson:"userIsMale"`
	CharismaCount int       `json:"charismaCount" bson:"charismaCount"`
	Emoji         string    `json:"emoji" bson:"emoji"`
	EmojiDuration int       `json:"emojiDuration" bson:"emojiDuration"`
	State         SeatState `json:"state" bson:"state"`
	Kind          SeatKind  `json:"kind" bson:"kind"`
	VipEffect     string    `json:"vipEffect" bson:"vipEffect"`
	VipLevel      int       `json:"vipLevel" bson:"vipLevel"`
	IsPro         bool      `json:"isPro" bson:"isPro"`
	IsActive      bool      `json:"isActive" bson:"isActive"`
	IsTop         bool      `json:"isTop" bson:"isTop"`
}

// NewSeat returns an empty seat with the given number and state.
func NewSeat(number int, state SeatState) Seat {
	male := true
	return Seat{
		Number:     number,
		State:      state,
		Kind:       SeatKindRegular,
		UserIsMale: &male,
		IsActive:   true,
	}
}

// ClearOccupant resets the occupant snapshot and puts the seat back to
// noSpeaker. The seat itself stays in the list.
func (s *Seat) ClearOccupant() {
	s.UserID = ""
	s.UserName = ""
	s.UserAvatar = ""
	s.UserFrame = ""
	s.UserIsMale = nil
	s.Emoji = ""
	s.EmojiDuration = 0
	s.State = SeatNoSpeaker
}

// Occupied reports whether the seat currently has an occupant.
func (s *Seat) Occupied() bool { return s.UserID != "" }
