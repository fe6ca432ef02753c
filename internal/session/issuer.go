package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/password"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/token"
	"go.uber.org/zap"
)

// CredentialStore is the subset of person.PersonRepo the issuer needs.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*person.Person, error)
}

type Issuer interface {
	Login(ctx context.Context, email, plaintext string) (*Session, error)
	// Renew mints a fresh session for p without checking credentials, e.g.
	// after the account's tier changed.
	Renew(ctx context.Context, p *person.Person) (*Session, error)
	Attach(w http.ResponseWriter, s *Session)
	Clear(w http.ResponseWriter)
	CookieName() string
}

type issuer struct {
	store  CredentialStore
	hasher *password.Hasher
	tokens token.TokenService
	cookie config.CookieConfig
	logger *zap.Logger
}

func NewIssuer(store CredentialStore, hasher *password.Hasher, tokens token.TokenService, cookie *config.CookieConfig, logger *zap.Logger) Issuer {
	c := *cookie
	if c.Name == "" {
		c.Name = config.DefaultCookieName
	}
	return &issuer{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		cookie: c,
		logger: logger,
	}
}

func (i *issuer) Login(ctx context.Context, email, plaintext string) (*Session, error) {
	p, err := i.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			i.hasher.Equalize(plaintext)
			i.logger.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		i.logger.Error("failed to look up credentials", zap.Error(err))
		return nil, err
	}

	if !password.Verify(plaintext, p.Password) {
		i.logger.Debug("login with wrong password", zap.Int64("id", p.ID))
		return nil, ErrInvalidCredentials
	}

	return i.Renew(ctx, p)
}

func (i *issuer) Renew(ctx context.Context, p *person.Person) (*Session, error) {
	res, err := i.tokens.Issue(ctx, p)
	if err != nil {
		return nil, err
	}
	return &Session{
		Person:    p,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}, nil
}

func (i *issuer) Attach(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     i.cookie.Name,
		Value:    s.Token,
		Path:     "/",
		Domain:   i.cookie.Domain,
		Expires:  s.ExpiresAt,
		MaxAge:   int(i.tokens.TTL() / time.Second),
		HttpOnly: true,
		Secure:   i.cookie.Secure,
		SameSite: i.cookie.SameSite,
	})
}

func (i *issuer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     i.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   i.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.cookie.Secure,
		SameSite: i.cookie.SameSite,
	})
}

func (i *issuer) CookieName() string {
	return i.cookie.Name
}
