package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Usernames are unique
// case- and whitespace-insensitively via the normalized column.
type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username           string     `gorm:"column:username;not null"`
	NormalizedUsername string     `gorm:"column:normalized_username;not null;uniqueIndex"`
	Name               string     `gorm:"column:name;not null"`
	Email              string     `gorm:"column:email;not null"`
	NormalizedEmail    string     `gorm:"column:normalized_email;not null"`
	PasswordHash       string     `gorm:"column:password_hash;not null"`
	Roles              []Role     `gorm:"many2many:user_roles"`
	LastLoginAt        *time.Time `gorm:"column:last_login_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
