package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType discriminates access tokens from refresh tokens so one cannot be
// presented where the other is expected.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPayload captures the identity data available when minting a JWT.
type TokenPayload struct {
	UserID   uuid.UUID
	Username string
	Role     string
	JTI      string
}

// Claims is the typed JWT issued to clients.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}
