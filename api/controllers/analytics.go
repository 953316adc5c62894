package controllers

import (
	"net/http"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	analyticssvc "github.com/forgefitlabs/forgefit-backend/internal/analytics"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

// AdminAnalytics serves the order/revenue summary. Admin-only; the role
// guard sits in the router.
func AdminAnalytics(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		summary, err := svc.Summarize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
