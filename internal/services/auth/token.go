package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/model"
)

// ErrInvalidToken covers every reason a token can be rejected
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the verified content of a session token
type TokenClaims struct {
	Kind      model.PrincipalKind
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Kind model.PrincipalKind `json:"knd"`
}

// TokenCodec issues and verifies HS256-signed session tokens
type TokenCodec struct {
	secret []byte
	clock  clock.Clock
}

// NewTokenCodec creates a codec. The secret must be non-empty.
func NewTokenCodec(secret string, clock clock.Clock) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &TokenCodec{secret: []byte(secret), clock: clock}, nil
}

// Issue signs a token for the given principal kind and id, valid for ttl
func (c *TokenCodec) Issue(kind model.PrincipalKind, id string, ttl time.Duration) (string, error) {
	token, _, err := c.IssueClaims(kind, id, ttl)
	return token, err
}

// IssueClaims is Issue that also returns the claims as they were encoded.
// Times are truncated to whole seconds, matching what Verify will report.
func (c *TokenCodec) IssueClaims(kind model.PrincipalKind, id string, ttl time.Duration) (string, TokenClaims, error) {
	if !kind.Valid() {
		return "", TokenClaims{}, fmt.Errorf("cannot issue token for kind %q", kind)
	}
	now := c.clock.Now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", TokenClaims{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, TokenClaims{
		Kind:      kind,
		Subject:   id,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// A token is expired once now >= exp.
func (c *TokenCodec) Verify(token string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		// Reject non-canonical base64 so no two strings verify as the same token
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return TokenClaims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || !claims.Kind.Valid() || claims.Subject == "" || claims.IssuedAt == nil {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{
		Kind:      claims.Kind,
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
