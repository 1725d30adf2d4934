package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	claimsContextKey contextKey = "session_claims"
	tokenContextKey  contextKey = "session_token"
)

// ContextWithSession stores the verified token and its claims in ctx.
func ContextWithSession(ctx context.Context, token string, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves the verified claims from the context.
// Returns nil if not present.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// TokenFromContext retrieves the raw verified token.
// Returns empty string if not authenticated.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustClaimsFromContext retrieves the claims from the context.
// Panics if not present (use only behind the session middleware).
func MustClaimsFromContext(ctx context.Context) *Claims {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		panic("session claims not found - ensure session middleware is applied")
	}
	return claims
}
