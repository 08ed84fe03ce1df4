// Package auth verifies the identity tokens that back admin sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken    = errors.New("token is empty")
	ErrNotConfigured = errors.New("issuer or audience not configured")
	ErrKeySet        = errors.New("key set unavailable")
)

// Claims is the verified payload of an identity token.
type Claims struct {
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// DisplayName returns the best human-readable identity in the token.
func (c *Claims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.PreferredUsername != "":
		return c.PreferredUsername
	case c.Email != "":
		return c.Email
	}
	return c.Subject
}

// Result is the outcome of one verification. Err is set only when Valid is false.
type Result struct {
	Valid  bool
	Claims *Claims
	Err    error
}

// TokenVerifier is implemented by Verifier and CachedVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) Result
}

// KeySource resolves the verification key of a token. keyfunc.Keyfunc satisfies it.
type KeySource interface {
	Keyfunc(token *jwt.Token) (interface{}, error)
}

// KeySourceFunc adapts a plain jwt.Keyfunc into a KeySource.
type KeySourceFunc jwt.Keyfunc

func (f KeySourceFunc) Keyfunc(token *jwt.Token) (interface{}, error) {
	return f(token)
}

// Verifier checks signature, issuer, audience and expiry of identity tokens.
type Verifier struct {
	issuer   string
	audience string
	keys     func(ctx context.Context) (KeySource, error)
	methods  []string
	leeway   time.Duration
}

// NewVerifier creates a verifier. keys is called on every verification and may fail,
// in which case the token is reported invalid.
func NewVerifier(issuer, audience string, keys func(ctx context.Context) (KeySource, error)) *Verifier {
	return &Verifier{
		issuer:   issuer,
		audience: audience,
		keys:     keys,
		methods:  []string{"RS256", "RS384", "RS512", "ES256", "ES384", "PS256"},
		leeway:   30 * time.Second,
	}
}

// NewStaticVerifier creates a verifier over a fixed key source.
func NewStaticVerifier(issuer, audience string, keys KeySource) *Verifier {
	return NewVerifier(issuer, audience, func(context.Context) (KeySource, error) {
		return keys, nil
	})
}

// Verify makes a single attempt to validate token. It never panics and never retries.
func (v *Verifier) Verify(ctx context.Context, token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return Result{Err: ErrEmptyToken}
	}
	if v.issuer == "" || v.audience == "" || v.keys == nil {
		return Result{Err: ErrNotConfigured}
	}

	keys, err := v.keys(ctx)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrKeySet, err)}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, keys.Keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return Result{Err: err}
	}
	if !parsed.Valid {
		return Result{Err: jwt.ErrTokenSignatureInvalid}
	}
	return Result{Valid: true, Claims: claims}
}
