package controllers

import (
	"net/http"

	"github.com/angelmondragon/rateboard-backend/api/responses"
	"github.com/angelmondragon/rateboard-backend/api/validators"
	"github.com/angelmondragon/rateboard-backend/internal/stores"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
)

// StoreCreate registers a store and its owner login.
func StoreCreate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "stores")
			return
		}

		var body stores.CreateStoreInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithStoreID(r.Context(), store.ID.String())
		logg.Info(ctx, "stores.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

func StoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "stores")
			return
		}

		search := validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength)
		list, err := svc.List(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// StoreOwnerDashboard shows the calling owner's store and its ratings.
func StoreOwnerDashboard(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "stores")
			return
		}
		identity, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		dashboard, err := svc.OwnerDashboard(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
