package person

import (
	"time"

	"github.com/mehmetcc/financeu/internal/tier"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Person is an account record. Password holds the bcrypt hash and is never
// serialized.
type Person struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name" db:"name"`
	Password       string    `json:"-" db:"password"`
	Role           Role      `json:"role" db:"role"`
	MembershipTier tier.Tier `json:"membershipTier" db:"membership_tier"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicPerson is the client-facing view of a Person.
type PublicPerson struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	MembershipTier tier.Tier `json:"membershipTier"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (p *Person) Public() PublicPerson {
	return PublicPerson{
		ID:             p.ID,
		Email:          p.Email,
		Name:           p.Name,
		Role:           p.Role,
		MembershipTier: p.MembershipTier,
		CreatedAt:      p.CreatedAt,
	}
}

func (p *Person) IsAdmin() bool {
	return p.Role == RoleAdmin
}
