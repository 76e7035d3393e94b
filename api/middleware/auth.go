package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/rateboard-backend/api/responses"
	"github.com/angelmondragon/rateboard-backend/api/validators"
	pkgAuth "github.com/angelmondragon/rateboard-backend/pkg/auth"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
	"github.com/google/uuid"
)

// UserLookup resolves the account a token was issued for.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticator turns an Authorization header into an Identity.
type Authenticator struct {
	cfg   config.JWTConfig
	users UserLookup
}

func NewAuthenticator(cfg config.JWTConfig, users UserLookup) (*Authenticator, error) {
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &Authenticator{cfg: cfg, users: users}, nil
}

// Authenticate verifies the bearer token and loads its user. Invalid and
// expired tokens produce the same error so callers cannot tell them apart.
// The role is taken from the stored account, not the token.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Identity, error) {
	token, err := validators.BearerToken(header)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "authentication required")
	}

	claims, err := pkgAuth.VerifyToken(a.cfg, token)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
		}
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	return Identity{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

// Auth rejects requests without a valid bearer token and seeds the request
// context with the caller's identity and log fields.
func Auth(a *Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID.String())
				ctx = logg.WithActorRole(ctx, string(identity.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
