package auth

import (
	"github.com/stockroomhq/stockroom-backend/internal/users"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a freshly minted token and the user it belongs to.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// MeResponse wraps the resolved account for the current-user endpoint.
type MeResponse struct {
	User *users.UserDTO `json:"user"`
}

// DemoResponse is the throwaway-account login payload.
type DemoResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
