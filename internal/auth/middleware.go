package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/httprate"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/httpx"
	"github.com/mehmetcc/financeu/internal/tier"
	"github.com/mehmetcc/financeu/internal/token"
	"go.uber.org/zap"
)

type Authenticator struct {
	tokens     token.TokenService
	cookieName string
	logger     *zap.Logger
}

func NewAuthenticator(tokens token.TokenService, cookieName string, logger *zap.Logger) *Authenticator {
	if cookieName == "" {
		cookieName = config.DefaultCookieName
	}
	return &Authenticator{
		tokens:     tokens,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Authenticate rejects requests without a valid session token and attaches
// the token's claims to the request context otherwise. Every rejection gets
// the same response.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := a.extract(r)
		if !ok {
			WriteUnauthenticated(w)
			return
		}

		claims, err := a.tokens.Verify(r.Context(), raw)
		if err != nil {
			a.logger.Debug("session token rejected", zap.Error(err), zap.String("path", r.URL.Path))
			WriteUnauthenticated(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// extract reads the session cookie, falling back to a bearer token.
func (a *Authenticator) extract(r *http.Request) (string, bool) {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	scheme, value, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// RequireTier only admits identities whose membership tier is at least
// minimum. It must run after Authenticate.
func RequireTier(minimum tier.Tier) func(http.Handler) http.Handler {
	if !minimum.Valid() {
		panic(fmt.Sprintf("auth: RequireTier with unknown tier %q", minimum))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteUnauthenticated(w)
				return
			}
			if !tier.Allows(claims.Tier(), minimum) {
				httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[tierDetails]{
					Code:    httpx.ErrForbidden,
					Message: ErrForbidden.Error(),
					Details: tierDetails{RequiredTier: minimum, CurrentTier: claims.Tier()},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only admits identities with the admin role. It must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteUnauthenticated(w)
			return
		}
		if !claims.IsAdmin() {
			httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[any]{
				Code:    httpx.ErrForbidden,
				Message: ErrAdminOnly.Error(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit limits requests per client IP on credential endpoints.
func RateLimit(cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.AuthRequests,
		cfg.AuthWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, http.StatusTooManyRequests, httpx.ErrorResponse[any]{
				Code:    httpx.ErrTooManyRequests,
				Message: "too many requests, try again later",
			})
		}),
	)
}

type tierDetails struct {
	RequiredTier tier.Tier `json:"requiredTier"`
	CurrentTier  tier.Tier `json:"currentTier"`
}

// WriteUnauthenticated writes the single 401 body used for every
// authentication failure.
func WriteUnauthenticated(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
		Code:    httpx.ErrUnauthorized,
		Message: ErrUnauthenticated.Error(),
	})
}
