package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials. Role is
// the primary role name, empty when none is assigned.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Name         string
	Email        string
	PasswordHash string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Role:        PrimaryRole(u),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	// ID is assigned client-side so the sqlite driver used in tests does
	// not need gen_random_uuid().
	return &models.User{
		ID:                 uuid.New(),
		Username:           strings.TrimSpace(c.Username),
		NormalizedUsername: NormalizeUsername(c.Username),
		Name:               c.Name,
		Email:              c.Email,
		NormalizedEmail:    NormalizeEmail(c.Email),
		PasswordHash:       c.PasswordHash,
	}
}

// PrimaryRole returns the first assigned role name, or empty.
func PrimaryRole(u *models.User) string {
	if u == nil || len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}
