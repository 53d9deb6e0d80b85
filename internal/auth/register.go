package auth

import (
	"context"
	"strings"

	"github.com/lcastellanos/shopline-backend/internal/identity"
	"github.com/lcastellanos/shopline-backend/pkg/config"
	"github.com/lcastellanos/shopline-backend/pkg/db"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"github.com/lcastellanos/shopline-backend/pkg/security"
	"gorm.io/gorm"
)

// DefaultRole is assigned when a registration does not name one.
const DefaultRole = "User"

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	roleName := strings.TrimSpace(req.Role)
	if roleName == "" {
		roleName = DefaultRole
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	var resp *RegisterResponse
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := identity.NewRepository(tx)

		count, err := repo.CountByUsername(ctx, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already registered")
		}

		user, err := repo.Create(ctx, identity.CreateUserDTO{
			Username:     username,
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: passwordHash,
		})
		if err != nil {
			// A concurrent registration can slip past the pre-check and
			// land on the unique index instead.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		role, err := repo.FindOrCreateRole(ctx, roleName)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "provision role")
		}
		if err := repo.AssignRole(ctx, user, role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign role")
		}
		user.Roles = append(user.Roles, *role)

		resp = &RegisterResponse{User: identity.FromModel(user)}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}
