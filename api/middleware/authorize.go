package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/rateboard-backend/api/responses"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
)

// AuthorizeRoles checks that ctx carries an identity holding one of roles.
func AuthorizeRoles(ctx context.Context, roles ...enums.Role) error {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
}

// Authorize only lets callers with one of roles through. Mount it after Auth.
func Authorize(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := AuthorizeRoles(r.Context(), roles...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
