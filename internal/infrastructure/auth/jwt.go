// Package auth verifies bearer tokens issued by the identity provider.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims are the access token claims this service relies on
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string   `json:"tenant_id"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions,omitempty"`
}

// RequestContext converts verified claims into the caller identity
func (c *Claims) RequestContext() (shared.RequestContext, error) {
	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return shared.RequestContext{}, fmt.Errorf("%w: tenant_id %q", ErrInvalidToken, c.TenantID)
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return shared.RequestContext{}, fmt.Errorf("%w: user_id %q", ErrInvalidToken, c.UserID)
	}
	return shared.NewRequestContext(tenantID, userID, c.Username, c.Permissions...), nil
}

// HasPermission reports whether the token grants permission
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission) || slices.Contains(c.Permissions, "*")
}

// JWTVerifier validates HS256 access tokens
type JWTVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewJWTVerifier creates a verifier for tokens signed with cfg.Secret.
// When cfg.Issuer is set the iss claim must match it.
func NewJWTVerifier(cfg config.JWTConfig) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		leeway: 30 * time.Second,
	}
}

// Verify parses tokenString and returns its claims
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// TokenInput describes a token minted by IssueToken
type TokenInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Username    string
	Permissions []string
	TTL         time.Duration
}

// IssueToken signs a token the verifier accepts. Used by tests and local tooling;
// production tokens come from the identity provider.
func (v *JWTVerifier) IssueToken(in TokenInput) (string, error) {
	now := time.Now()
	ttl := in.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    v.issuer,
			Subject:   in.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:    in.TenantID.String(),
		UserID:      in.UserID.String(),
		Username:    in.Username,
		Permissions: in.Permissions,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
