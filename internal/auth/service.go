package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/rateboard-backend/internal/users"
	pkgAuth "github.com/angelmondragon/rateboard-backend/pkg/auth"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/security"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in users.UpdateProfileInput) (*users.UserDTO, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users     users.Service
	UserRepo  userRepository
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	users    users.Service
	userRepo userRepository
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users service is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if strings.TrimSpace(params.JWTConfig.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:    params.Users,
		userRepo: params.UserRepo,
		jwtCfg:   params.JWTConfig,
		now:      now,
	}, nil
}

// Register creates a user or owner account and signs it in. Owners get their
// store in the same transaction as the account.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := enums.RoleUser
	if raw := strings.TrimSpace(req.Role); raw != "" {
		parsed, err := enums.ParseRole(raw)
		if err != nil || parsed == enums.RoleAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of user, owner").
				WithDetails(map[string]any{"field": "role"})
		}
		role = parsed
	}

	user, err := s.users.Create(ctx, users.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(req.Role); raw != "" {
		role, err := enums.ParseRole(raw)
		if err != nil || role != user.Role {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
	}
	return s.issue(users.FromModel(user))
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, in users.UpdateProfileInput) (*users.UserDTO, error) {
	return s.users.UpdateProfile(ctx, userID, in)
}

func (s *service) issue(user *users.UserDTO) (*AuthResponse, error) {
	token, err := pkgAuth.IssueToken(s.jwtCfg, s.now(), user.ID, user.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.userRepo.FindByEmail(ctx, input)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
