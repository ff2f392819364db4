package model

// User carries only the fields the room engine reads: the display snapshot
// copied onto seats, the balance the special-seat purchase deducts from, and
// the presence pointers. The full user profile is owned elsewhere.
type User struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Avatar      string   `json:"avatar" bson:"avatar"`
	Frame       string   `json:"frame" bson:"frame"`
	IsMale      bool     `json:"isMale" bson:"isMale"`
	Balance     int      `json:"balance" bson:"balance"`
	CurrentRoom string   `json:"currentRoom,omitempty" bson:"currentRoom"`
	OwnedRoom   string   `json:"ownedRoom,omitempty" bson:"ownedRoom"`
	IsElevated  bool     `json:"isElevated" bson:"isElevated"`
	Blocked     []string `json:"-" bson:"blocked"`
}
