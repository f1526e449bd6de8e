// Package auth verifies bearer tokens and carries the authenticated owner through a context.
// Tokens are HS256 JWTs whose subject is the owner UUID.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	// ErrMissingToken is returned when no bearer token was supplied
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when a token fails verification
	ErrInvalidToken = errors.New("invalid token")
)

const bearerPrefix = "bearer "

type ownerKey struct{}

// Verifier checks tokens signed with a shared secret
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given HMAC secret
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// NewToken signs a token for ownerID that expires after ttl
func (v *Verifier) NewToken(ownerID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   ownerID.String(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the owner it was issued to
func (v *Verifier) ParseToken(tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, ErrMissingToken
	}

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if claims.ExpiresAt == 0 {
		return uuid.Nil, fmt.Errorf("%w: token has no expiry", ErrInvalidToken)
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not an owner id", ErrInvalidToken)
	}

	return ownerID, nil
}

// ParseBearer verifies the token of an "Authorization: Bearer <token>" header value
func (v *Verifier) ParseBearer(header string) (uuid.UUID, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return uuid.Nil, ErrMissingToken
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return uuid.Nil, fmt.Errorf("%w: expected a bearer token", ErrInvalidToken)
	}
	return v.ParseToken(strings.TrimSpace(header[len(bearerPrefix):]))
}

// WithOwner returns a context carrying the authenticated owner
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the authenticated owner, if any
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return ownerID, ok && ownerID != uuid.Nil
}
