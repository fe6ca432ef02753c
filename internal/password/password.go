package password

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest password bcrypt accepts, in bytes.
const MaxBytes = 72

var ErrTooLong = errors.New("password exceeds 72 bytes")

type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a Hasher using cost, falling back to bcrypt.DefaultCost
// when cost is out of bcrypt's range. The hash Equalize compares against is
// built here so no login pays for generating it.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	dummy, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(b)), cost)
	if err != nil {
		// only reachable with an out-of-range cost, which was clamped above
		panic("password: generate dummy hash: " + err.Error())
	}
	return &Hasher{cost: cost, dummy: dummy}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxBytes {
		return "", ErrTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Equalize burns one bcrypt comparison at the hasher's cost and discards the
// result, so a missing account costs as much as a wrong password.
func (h *Hasher) Equalize(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}

// Verify reports whether plaintext matches storedHash. A malformed hash never
// matches.
func Verify(plaintext, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
