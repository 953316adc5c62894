package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/api/middleware"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

// currentUserID pulls the authenticated user's id out of the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
