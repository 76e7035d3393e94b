package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/rateboard-backend/api/responses"
	"github.com/angelmondragon/rateboard-backend/api/validators"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
)

const maxSearchLength = 100

// UserCreate lets an admin add an account of any role. Owners get their store atomically.
func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "users")
			return
		}

		var body users.CreateUserInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if role, err := enums.ParseRole(string(body.Role)); err == nil {
			body.Role = role
		}

		user, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"created_user_id": user.ID.String(),
			"created_role":    string(user.Role),
		})
		logg.Info(ctx, "users.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// UserList filters accounts by ?search= and ?role=.
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "users")
			return
		}

		query := r.URL.Query()
		list, err := svc.List(r.Context(), users.ListFilter{
			Search: validators.SanitizeString(query.Get("search"), maxSearchLength),
			Role:   strings.TrimSpace(query.Get("role")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminDashboard(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "users")
			return
		}

		totals, err := svc.AdminDashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}
