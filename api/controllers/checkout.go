package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/api/middleware"
	"github.com/forgefitlabs/forgefit-backend/api/responses"
	"github.com/forgefitlabs/forgefit-backend/api/validators"
	checkoutsvc "github.com/forgefitlabs/forgefit-backend/internal/checkout"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

// Checkout runs the full checkout flow. Works for authenticated users, for
// guests signing in inline through the payload, and for plain guest orders
// keyed on the submitted email.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.Request
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
				return
			}
			userID = &id
		}

		resp, err := svc.Checkout(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}
