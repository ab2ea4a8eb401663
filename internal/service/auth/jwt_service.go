package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given
	// principal, embedding the username and authorities as claims.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, principal Principal) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It carries enough to re-derive the principal without a session store.
type Claims struct {
	// Username is the authenticated user's unique username (sub claim).
	Username string `json:"sub,omitempty"`

	// Authorities are the role-derived permission strings for the user.
	Authorities []string `json:"authorities,omitempty"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Principal reconstructs the access-check identity carried by the
// claims. The password hash is never present in a token.
func (c *Claims) Principal() Principal {
	return Principal{
		Username:    c.Username,
		Authorities: c.Authorities,
	}
}
