package catalog

import (
	"time"

	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	SKU          string          `json:"sku,omitempty"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	ImagePath    *string         `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateProductDTO carries the fields accepted when listing a product.
type CreateProductDTO struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	CategoryID  uint
	ImageURL    *string
	ImagePath   *string
}

// UpdateProductDTO carries the fields accepted when editing a product.
type UpdateProductDTO struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	CategoryID  uint
	ImageURL    *string
	ImagePath   *string
}

// ProductPage is the paginated listing envelope.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalItems int64        `json:"total_items"`
	TotalPages int          `json:"total_pages"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		ImagePath:   p.ImagePath,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

func FromModels(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *FromModel(&products[i]))
	}
	return dtos
}
