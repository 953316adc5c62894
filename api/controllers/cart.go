package controllers

import (
	"net/http"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	"github.com/forgefitlabs/forgefit-backend/api/validators"
	cartsvc "github.com/forgefitlabs/forgefit-backend/internal/cart"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

type syncCartRequest struct {
	Items []cartsvc.LineInput `json:"items" validate:"dive"`
}

type cartStateResponse struct {
	Items     []cartsvc.Line `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
	IsOpen    bool           `json:"is_open"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error,omitempty"`
}

func newCartStateResponse(state cartsvc.State) cartStateResponse {
	items := state.Lines
	if items == nil {
		items = []cartsvc.Line{}
	}
	return cartStateResponse{
		Items:     items,
		ItemCount: state.ItemCount(),
		Subtotal:  state.Subtotal().StringFixed(2),
		IsOpen:    state.Open,
		IsLoading: state.Loading,
		Error:     state.Message,
	}
}

// CartShow runs a load pass and returns the rebuilt session state.
func CartShow(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Load(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartStateResponse(state))
	}
}

// CartSync full-replaces the session cart with the submitted lines and runs
// a save pass.
func CartSync(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload syncCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Sync(r.Context(), userID, payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartStateResponse(state))
	}
}
