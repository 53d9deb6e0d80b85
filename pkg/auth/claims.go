package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT. Role
// is a single role name, the principal's primary role; it is the empty
// string when the user has no role assigned.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// AccessTokenClaims represents the typed JWT issued to clients. Consumers
// validate signature and expiry only; issuer and audience are deliberately
// not asserted.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}
