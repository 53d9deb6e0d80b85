package categories

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/lcastellanos/shopline-backend/pkg/db"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	minNameLength = 3
	maxNameLength = 50
)

// Service defines category management behavior.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id uint, name string) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

// ServiceParams bundles the dependencies for the category service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService constructs the category service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

func (s *service) Create(ctx context.Context, name string) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	var created *models.Category
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		count, err := repo.CountByName(ctx, name, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}

		category := &models.Category{
			Name:           name,
			NormalizedName: NormalizeName(name),
		}
		if err := repo.Create(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
		}
		created = category
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	var updated *models.Category
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		category, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}

		count, err := repo.CountByName(ctx, name, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}

		category.Name = name
		category.NormalizedName = NormalizeName(name)
		if err := repo.Update(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
		}
		updated = category
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		exists, err := repo.ExistsByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}

		products, err := repo.CountProducts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
		}
		if products > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
		}
		return nil
	})
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	if length < minNameLength || length > maxNameLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category name must be between 3 and 50 characters")
	}
	return name, nil
}
