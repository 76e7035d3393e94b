package users

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NameMinLength    = 2
	NameMaxLength    = 60
	AddressMaxLength = 400
)

// Service defines the user management behaviour used by controllers and other domains.
type Service interface {
	Create(ctx context.Context, in CreateUserInput) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, filter ListFilter) ([]UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*UserDTO, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
}

// OwnerProvisioner creates the store linked to a freshly inserted owner, inside tx.
type OwnerProvisioner func(ctx context.Context, tx *gorm.DB, owner *models.User) error

type passwordHasher interface {
	Hash(password string) (string, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	DB             *db.Client
	Hasher         passwordHasher
	ProvisionOwner OwnerProvisioner
}

type service struct {
	db        *db.Client
	hasher    passwordHasher
	provision OwnerProvisioner
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.ProvisionOwner == nil {
		return nil, fmt.Errorf("owner provisioner required")
	}
	return &service{
		db:        params.DB,
		hasher:    params.Hasher,
		provision: params.ProvisionOwner,
	}, nil
}

// Create validates and persists a new account. An owner account gets its
// store in the same transaction, so either both rows exist or neither does.
func (s *service) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	in = normalizeCreateInput(in)
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         in.Role,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindByEmail(ctx, in.Email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		if err := repo.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if user.Role == enums.RoleOwner {
			if err := s.provision(ctx, tx, user); err != nil {
				if pkgerrors.As(err) != nil {
					return err
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create owner store")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(user), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]UserDTO, error) {
	var role enums.Role
	if raw := strings.TrimSpace(filter.Role); raw != "" {
		parsed, err := enums.ParseRole(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter").
				WithDetails(map[string]any{"field": "role"})
		}
		role = parsed
	}

	rows, err := NewRepository(s.db.DB()).List(ctx, filter.Search, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateProfile changes name and/or address only; email, password and role
// cannot be changed through this path.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*UserDTO, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		if err := validateAddress(address); err != nil {
			return nil, err
		}
		updates["address"] = address
	}

	user, err := NewRepository(s.db.DB()).UpdateProfile(ctx, id, updates)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return FromModel(user), nil
}

func (s *service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	totals, err := NewRepository(s.db.DB()).Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load dashboard totals")
	}
	return &totals, nil
}

func normalizeCreateInput(in CreateUserInput) CreateUserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

func validateCreateInput(in CreateUserInput) error {
	missing := []string{}
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if in.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	if !strings.Contains(in.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "email must be a valid email").
			WithDetails(map[string]any{"field": "email"})
	}
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateAddress(in.Address); err != nil {
		return err
	}
	if !in.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "role must be one of admin, owner, user").
			WithDetails(map[string]any{"field": "role"})
	}
	return ValidatePassword(in.Password)
}

// ValidatePassword maps password policy violations to a validation error.
func ValidatePassword(password string) error {
	if err := security.ValidatePasswordPolicy(password); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password must be 8-16 characters with at least one uppercase letter and one special character").
			WithDetails(map[string]any{"field": "password"})
	}
	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < NameMinLength || n > NameMaxLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be %d-%d characters", NameMinLength, NameMaxLength)).
			WithDetails(map[string]any{"field": "name"})
	}
	return nil
}

func validateAddress(address string) error {
	if utf8.RuneCountInString(address) > AddressMaxLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address must be at most %d characters", AddressMaxLength)).
			WithDetails(map[string]any{"field": "address"})
	}
	return nil
}
