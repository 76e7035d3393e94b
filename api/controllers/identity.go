package controllers

import (
	"net/http"

	"github.com/angelmondragon/rateboard-backend/api/middleware"
	"github.com/angelmondragon/rateboard-backend/api/responses"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
)

// requireIdentity returns the caller attached by middleware.Auth, writing a
// 401 when the route was mounted without it.
func requireIdentity(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return middleware.Identity{}, false
	}
	return identity, true
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
