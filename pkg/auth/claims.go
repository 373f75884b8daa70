package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	// Demo marks short-lived throwaway accounts created by the demo login.
	Demo bool
	JTI  string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Demo   bool      `json:"demo,omitempty"`
	jwt.RegisteredClaims
}
