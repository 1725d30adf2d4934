package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bankdemo/frontend/internal/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
	// OnDeny answers requests without a valid session. Nil lets them through
	// unauthenticated.
	OnDeny http.Handler
}

// Session returns a middleware that verifies the session cookie and injects
// the token and its claims into the request context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			claims, err := cfg.Verifier.Verify(token)
			if err != nil {
				level := slog.LevelWarn
				if errors.Is(err, auth.ErrMissingToken) {
					level = slog.LevelDebug
				}
				cfg.Logger.LogAttrs(r.Context(), level, "session rejected",
					slog.String("reason", err.Error()),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				if cfg.OnDeny != nil {
					cfg.OnDeny.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), token, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectTo answers with 302 Found to path.
func RedirectTo(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	})
}

// Unauthorized answers with 401 Unauthorized.
func Unauthorized() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}
