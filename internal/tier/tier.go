package tier

import (
	"errors"
	"strings"
)

// Tier is a membership level. Tiers are totally ordered by their position in
// ordered, never by their string value.
type Tier string

const (
	Free    Tier = "free"
	Premium Tier = "premium"
	Pro     Tier = "pro"
)

var ErrUnknownTier = errors.New("unknown membership tier")

// lowest first
var ordered = []Tier{Free, Premium, Pro}

// All returns the tiers from lowest to highest.
func All() []Tier {
	out := make([]Tier, len(ordered))
	copy(out, ordered)
	return out
}

// Parse normalizes s and returns the matching tier.
func Parse(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	return t, nil
}

func (t Tier) Valid() bool {
	return t.index() >= 0
}

// Rank is the position of t in the tier order. Empty and unknown tiers rank
// as Free.
func (t Tier) Rank() int {
	if i := t.index(); i >= 0 {
		return i
	}
	return 0
}

func (t Tier) AtLeast(minimum Tier) bool {
	return Allows(t, minimum)
}

func (t Tier) String() string {
	return string(t)
}

// Allows reports whether an identity holding actual may access a resource
// that requires minimum.
func Allows(actual, minimum Tier) bool {
	return actual.Rank() >= minimum.Rank()
}

func (t Tier) index() int {
	for i, o := range ordered {
		if o == t {
			return i
		}
	}
	return -1
}
