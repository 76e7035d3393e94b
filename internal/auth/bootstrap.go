package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
)

const defaultAdminAddress = "Head Office"

// BootstrapAdmin creates the configured admin account unless a user with that
// email already exists. It reports whether a row was inserted.
func BootstrapAdmin(ctx context.Context, svc users.Service, repo userRepository, cfg config.AdminConfig) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}
	if svc == nil || repo == nil {
		return false, fmt.Errorf("users service and repository are required")
	}

	email := users.NormalizeEmail(cfg.Email)
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !db.IsNotFound(err) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		address = defaultAdminAddress
	}

	_, err := svc.Create(ctx, users.CreateUserInput{
		Name:     cfg.Name,
		Email:    email,
		Password: cfg.Password,
		Address:  address,
		Role:     enums.RoleAdmin,
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
