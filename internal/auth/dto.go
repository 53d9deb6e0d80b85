package auth

import "github.com/lcastellanos/shopline-backend/internal/identity"

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the minted token and sanitized principal.
type LoginResponse struct {
	AccessToken string            `json:"token"`
	User        *identity.UserDTO `json:"user"`
}

// RegisterRequest contains the payload required for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

// RegisterResponse returns the sanitized principal after onboarding.
type RegisterResponse struct {
	User *identity.UserDTO `json:"user"`
}
