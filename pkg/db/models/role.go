package models

import "time"

// Role is an authorization tag. Rows are created lazily the first time a
// registration requests a name that does not exist yet and are never
// deleted.
type Role struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
