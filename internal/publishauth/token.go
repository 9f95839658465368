// Package publishauth mints and validates scoped JWTs gating the
// distribution gateway's Publish RPC, and rate-limits publish attempts
// per signing key id.
//
// Grounded on pkg/auth/token.go's TokenManager and pkg/auth/ratelimit.go's
// per-key limiter.
package publishauth

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scope names an action a publisher token is authorized to perform.
type Scope string

const (
	ScopePublishManifest Scope = "publish:manifest"
	ScopePublishPack     Scope = "publish:pack"
)

// Claims is the JWT payload minted for a publisher, identifying which
// project salt it may publish under and which scopes it carries.
type Claims struct {
	jwt.RegisteredClaims
	KeyID       string   `json:"key_id"`
	ProjectSalt string   `json:"project_salt"`
	Scopes      []string `json:"scopes,omitempty"`
}

// HasScope reports whether the claims grant the given scope.
func (c *Claims) HasScope(scope Scope) bool {
	return slices.Contains(c.Scopes, string(scope))
}

// TokenManager issues and verifies HMAC-signed publisher tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewTokenManager builds a TokenManager from cfg.
func NewTokenManager(cfg *Config) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		expiration: cfg.JWTExpiration,
	}
}

// Generate mints a signed token for keyID scoped to projectSalt and
// scopes, returning the token and its expiration time.
func (m *TokenManager) Generate(keyID, projectSalt string, scopes []string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiration := now.Add(m.expiration)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   keyID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
		KeyID:       keyID,
		ProjectSalt: projectSalt,
		Scopes:      scopes,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("publishauth: signing token: %w", err)
	}
	return signed, expiration, nil
}

// Validate parses and verifies a publisher token, returning its claims.
func (m *TokenManager) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireScope validates token and checks it carries scope, in one call
// for gateway RPC handlers.
func (m *TokenManager) RequireScope(token string, scope Scope) (*Claims, error) {
	claims, err := m.Validate(token)
	if err != nil {
		return nil, err
	}
	if !claims.HasScope(scope) {
		return nil, ErrMissingScope
	}
	return claims, nil
}
