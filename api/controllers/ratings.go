package controllers

import (
	"net/http"

	"github.com/angelmondragon/rateboard-backend/api/responses"
	"github.com/angelmondragon/rateboard-backend/api/validators"
	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
)

// RatingSubmit stores or overwrites the caller's rating for a store.
func RatingSubmit(svc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "ratings")
			return
		}
		identity, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		var body ratings.SubmitInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseUUID(body.StoreID, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := body.Value()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithStoreID(r.Context(), storeID.String())
		result, err := svc.SubmitOrUpdate(ctx, identity.UserID, storeID, value)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RatingForUser returns the caller's rating for ?storeId=, or null.
func RatingForUser(svc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "ratings")
			return
		}
		identity, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		storeID, err := validators.ParseUUID(r.URL.Query().Get("storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rating, err := svc.GetUserRating(r.Context(), identity.UserID, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rating == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, rating)
	}
}
