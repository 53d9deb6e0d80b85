package catalog

import (
	"context"
	"strings"

	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeName is the canonical form backing the unique index and the
// purchase-by-name lookup.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// List returns every product with its category, ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("name asc").
		Find(&products).Error
	return products, err
}

// ListPage returns one page of products ordered by name.
func (r *Repository) ListPage(ctx context.Context, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// FindByID loads a single product with its category.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCategory returns every product in the category, ordered by name.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("name asc").
		Find(&products).Error
	return products, err
}

// Search matches the term as a case-insensitive substring of name or
// description.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name asc").
		Find(&products).Error
	return products, err
}

// CountByName counts rows sharing the normalized name, optionally excluding
// one id so updates can keep their own name.
func (r *Repository) CountByName(ctx context.Context, name string, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("normalized_name = ?", NormalizeName(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Create inserts the product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists field changes on an existing row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":            product.Name,
			"normalized_name": product.NormalizedName,
			"description":     product.Description,
			"price":           product.Price,
			"stock":           product.Stock,
			"sku":             product.SKU,
			"category_id":     product.CategoryID,
			"image_url":       product.ImageURL,
			"image_path":      product.ImagePath,
		}).Error
}

// Delete removes the row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// DecrementStock conditionally takes quantity units off the named product.
// The guard lives in the WHERE clause so two concurrent purchases can never
// drive stock negative; the returned count is 1 only when the decrement won.
func (r *Repository) DecrementStock(ctx context.Context, name string, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("normalized_name = ? AND stock >= ?", NormalizeName(name), quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	return result.RowsAffected, result.Error
}

// ExistsByName reports whether any product claims the normalized name.
func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.CountByName(ctx, name, 0)
	return count > 0, err
}
