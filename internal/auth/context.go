package auth

import (
	"context"

	"github.com/mehmetcc/financeu/internal/token"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims attached by Authenticate.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*token.Claims)
	return c, ok && c != nil
}
