package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Stock is never mutated by a
// plain read-modify-write; the purchase path uses a conditional update so
// it can never go negative.
type Product struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string          `gorm:"column:name;not null"`
	NormalizedName string          `gorm:"column:normalized_name;not null;uniqueIndex"`
	Description    string          `gorm:"column:description;type:text"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock          int             `gorm:"column:stock;not null;default:0"`
	SKU            string          `gorm:"column:sku;not null"`
	CategoryID     uint            `gorm:"column:category_id;not null"`
	Category       *Category       `gorm:"foreignKey:CategoryID"`
	ImageURL       *string         `gorm:"column:image_url"`
	ImagePath      *string         `gorm:"column:image_path"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
