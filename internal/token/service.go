package token

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/person"
	"go.uber.org/zap"
)

type TokenService interface {
	Issue(ctx context.Context, p *person.Person) (*IssueResult, error)
	Verify(ctx context.Context, tokenString string) (*Claims, error)
	TTL() time.Duration
}

type Option func(*tokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *tokenService) {
		s.now = now
	}
}

type tokenService struct {
	logger     *zap.Logger
	secret     []byte
	ttl        time.Duration
	issuer     string
	signingAlg jwt.SigningMethod
	parser     *jwt.Parser
	now        func() time.Time
}

// NewTokenService copies what it needs out of cfg; later changes to cfg have
// no effect.
func NewTokenService(logger *zap.Logger, cfg *config.JWTConfig, opts ...Option) (TokenService, error) {
	if cfg == nil || strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = config.DefaultSessionExpiry
	}

	s := &tokenService{
		logger:     logger,
		secret:     []byte(cfg.Secret),
		ttl:        ttl,
		issuer:     cfg.Issuer,
		signingAlg: jwt.SigningMethodHS256,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.signingAlg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	s.parser = jwt.NewParser(parserOpts...)

	return s, nil
}

func (s *tokenService) TTL() time.Duration {
	return s.ttl
}

func (s *tokenService) Issue(ctx context.Context, p *person.Person) (*IssueResult, error) {
	// NumericDate carries whole seconds; ExpiresAt must match the exp claim
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)
	claims := &Claims{
		UserID:         p.ID,
		Email:          p.Email,
		Name:           p.Name,
		Role:           p.Role,
		MembershipTier: p.MembershipTier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.signingAlg, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign session token", zap.Error(err))
		return nil, err
	}

	return &IssueResult{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *tokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	var claims Claims
	tkn, err := s.parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, ErrInvalidSignature
	}
	if !tkn.Valid {
		return nil, ErrInvalidSignature
	}
	return &claims, nil
}
