package model

import "time"

// SpecialSeatTiers is the purchasable tier set.
var SpecialSeatTiers = []string{"vip", "boss", "king"}

// SpecialSeatPrices maps a duration in days to its price.
var SpecialSeatPrices = map[int]int{
	7:  2000,
	15: 3000,
	30: 5000,
}

// ValidTier reports whether tier is purchasable.
func ValidTier(tier string) bool {
	for _, t := range SpecialSeatTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// SpecialSeat is a per-tier premium seat subscription. Expiration is
// evaluated lazily at read/mutate time; there is no background sweep, so a
// stored Purchased/IsActive pair can be stale until the next toggle or
// purchase corrects it.
type SpecialSeat struct {
	ExpirationDate time.Time `json:"expirationDate" bson:"expirationDate"`
	IsActive       bool      `json:"isActive" bson:"isActive"`
	Purchased      bool      `json:"purchased" bson:"purchased"`
}

// IsExpiredAt reports whether the subscription has lapsed at the given time.
func (s SpecialSeat) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpirationDate)
}
