// Package testutil holds helpers shared by package tests.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair is an RSA key pair standing in for the token service's signing key.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

var (
	sharedOnce sync.Once
	shared     *KeyPair
	sharedErr  error
)

// SharedKeyPair returns a key pair generated once per test binary.
func SharedKeyPair(t testing.TB) *KeyPair {
	t.Helper()
	sharedOnce.Do(func() {
		shared, sharedErr = generateKeyPair()
	})
	if sharedErr != nil {
		t.Fatalf("generate key pair: %v", sharedErr)
	}
	return shared
}

// NewKeyPair returns a freshly generated key pair.
func NewKeyPair(t testing.TB) *KeyPair {
	t.Helper()
	kp, err := generateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	return kp
}

func generateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// TokenClaims describes the claims of a test session token.
type TokenClaims struct {
	Name      string
	Account   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidClaims returns claims for a token valid for the next hour.
func ValidClaims() TokenClaims {
	now := time.Now().Truncate(time.Second)
	return TokenClaims{
		Name:      "Jacob Smith",
		Account:   "1011226111",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// Sign issues an RS256 token for claims.
func (k *KeyPair) Sign(t testing.TB, claims TokenClaims) string {
	t.Helper()
	return k.SignWith(t, jwt.SigningMethodRS256, claims)
}

// SignWith issues a token using method, for exercising algorithm checks.
func (k *KeyPair) SignWith(t testing.TB, method jwt.SigningMethod, claims TokenClaims) string {
	t.Helper()

	mc := jwt.MapClaims{
		"name": claims.Name,
		"acct": claims.Account,
	}
	if !claims.IssuedAt.IsZero() {
		mc["iat"] = claims.IssuedAt.Unix()
	}
	if !claims.ExpiresAt.IsZero() {
		mc["exp"] = claims.ExpiresAt.Unix()
	}

	var key any = k.Private
	if _, ok := method.(*jwt.SigningMethodHMAC); ok {
		key = x509.MarshalPKCS1PublicKey(k.Public)
	}

	signed, err := jwt.NewWithClaims(method, mc).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// WritePublicKey writes the public key as PEM into a temp dir and returns its path.
func (k *KeyPair) WritePublicKey(t testing.TB) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(k.Public)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "jwtRS256.key.pub")
	data := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write public key: %v", err)
	}
	return path
}
