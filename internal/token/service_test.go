package token

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService(t *testing.T, secret string, clock *fakeClock) TokenService {
	t.Helper()
	svc, err := NewTokenService(zap.NewNop(), &config.JWTConfig{
		Secret:    secret,
		AccessTTL: 7 * 24 * time.Hour,
		Issuer:    "financeu",
	}, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func ada() *person.Person {
	return &person.Person{
		ID:             1,
		Email:          "a@b.com",
		Name:           "Ada",
		Role:           person.RoleUser,
		MembershipTier: tier.Premium,
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(zap.NewNop(), &config.JWTConfig{Secret: ""})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenService(zap.NewNop(), &config.JWTConfig{Secret: "  "})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenService(zap.NewNop(), nil)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newService(t, "secret", clock)
	ctx := context.Background()

	res, err := svc.Issue(ctx, ada())
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), res.ExpiresAt)
	assert.Equal(t, 3, strings.Count(res.Token, ".")+1)

	clock.Advance(time.Hour)
	claims, err := svc.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, tier.Premium, claims.MembershipTier)
	assert.Equal(t, person.RoleUser, claims.Role)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "financeu", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueIsUniquePerCall(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newService(t, "secret", clock)

	a, err := svc.Issue(context.Background(), ada())
	require.NoError(t, err)
	b, err := svc.Issue(context.Background(), ada())
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestVerifyExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := newService(t, "secret", clock)

	res, err := svc.Issue(context.Background(), ada())
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour + time.Second)
	claims, err := svc.Verify(context.Background(), res.Token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestExpiresAtMatchesTokenExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 987654321, time.UTC)}
	svc := newService(t, "secret", clock)

	res, err := svc.Issue(context.Background(), ada())
	require.NoError(t, err)
	assert.Zero(t, res.ExpiresAt.Nanosecond())

	claims, err := svc.Verify(context.Background(), res.Token)
	require.NoError(t, err)
	assert.True(t, res.ExpiresAt.Equal(claims.ExpiresAt.Time))

	clock.t = res.ExpiresAt.Add(-time.Nanosecond)
	_, err = svc.Verify(context.Background(), res.Token)
	require.NoError(t, err)

	// the expiry instant itself is already expired
	clock.t = res.ExpiresAt
	_, err = svc.Verify(context.Background(), res.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newService(t, "secret-one", clock)
	verifier := newService(t, "secret-two", clock)

	res, err := issuer.Issue(context.Background(), ada())
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), res.Token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestVerifyTamperedPayload(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newService(t, "secret", clock)

	res, err := svc.Issue(context.Background(), ada())
	require.NoError(t, err)

	// re-sign the same header with a payload claiming the pro tier
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:         1,
		MembershipTier: tier.Pro,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "financeu",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	forgedString, err := forged.SignedString([]byte("guess"))
	require.NoError(t, err)
	parts := strings.Split(res.Token, ".")
	forgedParts := strings.Split(forgedString, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = svc.Verify(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newService(t, "secret", clock)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "financeu",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "financeu",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	s, err = hs512.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newService(t, "secret", clock)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "financeu"},
	})
	s, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWrongIssuer(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newService(t, "secret", clock)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	s, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyGarbage(t *testing.T) {
	svc := newService(t, "secret", &fakeClock{t: time.Now()})
	for _, s := range []string{"", "abc", "a.b.c", "....."} {
		_, err := svc.Verify(context.Background(), s)
		assert.ErrorIs(t, err, ErrInvalidSignature, s)
	}
}

func TestClaimsTierDefaultsToFree(t *testing.T) {
	assert.Equal(t, tier.Free, (&Claims{}).Tier())
	assert.Equal(t, tier.Pro, (&Claims{MembershipTier: tier.Pro}).Tier())
}

func TestTTLDefaults(t *testing.T) {
	svc, err := NewTokenService(zap.NewNop(), &config.JWTConfig{Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSessionExpiry, svc.TTL())
}
