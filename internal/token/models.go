package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/tier"
)

// Claims are the identity fields carried by a session token.
type Claims struct {
	UserID         int64       `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Role           person.Role `json:"role"`
	MembershipTier tier.Tier   `json:"membershipTier"`
	jwt.RegisteredClaims
}

// Tier returns the membership tier, treating an unset tier as Free.
func (c *Claims) Tier() tier.Tier {
	if c.MembershipTier == "" {
		return tier.Free
	}
	return c.MembershipTier
}

func (c *Claims) IsAdmin() bool {
	return c.Role == person.RoleAdmin
}

type IssueResult struct {
	Token     string
	ExpiresAt time.Time
}
