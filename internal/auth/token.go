// Package auth verifies the session tokens issued by the token service.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is the only algorithm accepted for session tokens.
const SigningAlgorithm = "RS256"

// Sentinel errors for token verification.
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the session token claims the front-end relies on.
type Claims struct {
	Name    string `json:"name"`
	Account string `json:"acct"`
	jwt.RegisteredClaims
}

// MaxAge returns the token validity window (exp - iat) in seconds.
// Zero means the window is unknown or empty.
func (c *Claims) MaxAge() int {
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return 0
	}
	window := c.ExpiresAt.Unix() - c.IssuedAt.Unix()
	if window <= 0 {
		return 0
	}
	return int(window)
}

// LoadPublicKey reads a PEM encoded RSA public key from path.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return key, nil
}

// Verifier checks token signatures against a fixed public key.
// It is safe for concurrent use.
type Verifier struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
	logger *slog.Logger
}

// NewVerifier creates a Verifier for tokens signed by the holder of key.
func NewVerifier(key *rsa.PublicKey, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		key: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{SigningAlgorithm}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
		logger: logger,
	}
}

// Verify validates the signature and time claims of token and returns its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Valid reports whether token verifies. Failures are logged and never allow.
func (v *Verifier) Valid(token string) bool {
	if _, err := v.Verify(token); err != nil {
		if !errors.Is(err, ErrMissingToken) {
			v.logger.Warn("token verification failed", slog.String("error", err.Error()))
		}
		return false
	}
	return true
}
