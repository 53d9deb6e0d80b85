package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/lcastellanos/shopline-backend/internal/categories"
	"github.com/lcastellanos/shopline-backend/pkg/db"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"github.com/lcastellanos/shopline-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines catalog behavior used by the product controllers.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	ListPage(ctx context.Context, params pagination.Params) (*ProductPage, error)
	GetByID(ctx context.Context, id uint) (*ProductDTO, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]ProductDTO, error)
	Search(ctx context.Context, term string) ([]ProductDTO, error)
	Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uint, dto UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id uint) (*ProductDTO, error)
	Purchase(ctx context.Context, name string, quantity int) error
}

// ServiceParams bundles the dependencies for the catalog service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	products, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(products), nil
}

func (s *service) ListPage(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	params = params.Normalize()
	repo := NewRepository(s.db.DB())

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}

	products, err := repo.ListPage(ctx, params.Offset(), params.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product page")
	}

	return &ProductPage{
		Items:      FromModels(products),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalItems: total,
		TotalPages: pagination.TotalPages(total, params.PageSize),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) ListByCategory(ctx context.Context, categoryID uint) ([]ProductDTO, error) {
	repo := NewRepository(s.db.DB())

	exists, err := categories.NewRepository(s.db.DB()).ExistsByID(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	products, err := repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list category products")
	}
	return FromModels(products), nil
}

func (s *service) Search(ctx context.Context, term string) ([]ProductDTO, error) {
	if strings.TrimSpace(term) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}
	products, err := NewRepository(s.db.DB()).Search(ctx, term)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	return FromModels(products), nil
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	name, err := validateProduct(dto.Name, dto.Price, dto.Stock)
	if err != nil {
		return nil, err
	}

	var created *models.Product
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		exists, err := categories.NewRepository(tx).ExistsByID(ctx, dto.CategoryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}

		count, err := repo.CountByName(ctx, name, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product name")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		}

		product := &models.Product{
			Name:           name,
			NormalizedName: NormalizeName(name),
			Description:    dto.Description,
			Price:          dto.Price,
			Stock:          dto.Stock,
			SKU:            dto.SKU,
			CategoryID:     dto.CategoryID,
			ImageURL:       dto.ImageURL,
			ImagePath:      dto.ImagePath,
		}
		if err := repo.Create(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		created = product
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, created.ID)
}

func (s *service) Update(ctx context.Context, id uint, dto UpdateProductDTO) (*ProductDTO, error) {
	name, err := validateProduct(dto.Name, dto.Price, dto.Stock)
	if err != nil {
		return nil, err
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		product, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		exists, err := categories.NewRepository(tx).ExistsByID(ctx, dto.CategoryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}

		count, err := repo.CountByName(ctx, name, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product name")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		}

		product.Name = name
		product.NormalizedName = NormalizeName(name)
		product.Description = dto.Description
		product.Price = dto.Price
		product.Stock = dto.Stock
		product.SKU = dto.SKU
		product.CategoryID = dto.CategoryID
		if dto.ImageURL != nil {
			product.ImageURL = dto.ImageURL
		}
		if dto.ImagePath != nil {
			product.ImagePath = dto.ImagePath
		}

		if err := repo.Update(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

// Delete removes the product and returns its last known state so callers can
// clean up any stored image.
func (s *service) Delete(ctx context.Context, id uint) (*ProductDTO, error) {
	var removed *ProductDTO
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		product, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
		}
		removed = FromModel(product)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return removed, nil
}

// Purchase decrements stock by quantity in a single conditional update. The
// decrement and the availability check are one statement, so overselling is
// impossible even under concurrent purchases.
func (s *service) Purchase(ctx context.Context, name string, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	repo := NewRepository(s.db.DB())
	affected, err := repo.DecrementStock(ctx, name, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
	}
	if affected == 1 {
		return nil
	}

	exists, err := repo.ExistsByName(ctx, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
}

func validateProduct(name string, price decimal.Decimal, stock int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if stock < 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return name, nil
}
