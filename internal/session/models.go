package session

import (
	"time"

	"github.com/mehmetcc/financeu/internal/person"
)

// Session is the result of a successful login. Token is only ever written to
// the session cookie.
type Session struct {
	Person    *person.Person
	Token     string
	ExpiresAt time.Time
}
