package models

import "time"

// Category groups products. The normalized column backs case-insensitive
// name uniqueness at the store level.
type Category struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;size:50;not null"`
	NormalizedName string    `gorm:"column:normalized_name;size:50;not null;uniqueIndex"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
