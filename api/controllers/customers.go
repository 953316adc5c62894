package controllers

import (
	"net/http"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	customerssvc "github.com/forgefitlabs/forgefit-backend/internal/customers"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

type customerInfoResponse struct {
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// CustomerPrefill returns the most recent saved contact snapshot for an
// email so the checkout form can prefill.
func CustomerPrefill(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		info, err := svc.Prefill(r.Context(), r.URL.Query().Get("email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customerInfoResponse{
			Email:        info.Email,
			FirstName:    info.FirstName,
			LastName:     info.LastName,
			Phone:        info.Phone,
			AddressLine1: info.AddressLine1,
			AddressLine2: info.AddressLine2,
			City:         info.City,
			State:        info.State,
			PostalCode:   info.PostalCode,
			Country:      info.Country,
		})
	}
}
