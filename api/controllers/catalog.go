package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	"github.com/forgefitlabs/forgefit-backend/internal/products"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Category    *string   `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type membershipResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	PriceMonthly string    `json:"price_monthly"`
	PriceYearly  string    `json:"price_yearly"`
	Features     []any     `json:"features,omitempty"`
}

type programResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	Price         string    `json:"price"`
	DurationWeeks int       `json:"duration_weeks"`
	Level         *string   `json:"level,omitempty"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}

func newMembershipResponse(m models.Membership) membershipResponse {
	return membershipResponse{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		PriceMonthly: m.PriceMonthly.StringFixed(2),
		PriceYearly:  m.PriceYearly.StringFixed(2),
		Features:     m.Features,
	}
}

func newProgramResponse(p models.Program) programResponse {
	resp := programResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		DurationWeeks: p.DurationWeeks,
	}
	if p.Level != nil {
		level := string(*p.Level)
		resp.Level = &level
	}
	return resp
}

// ProductsList serves the active product catalog, newest first.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		list, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]productResponse, 0, len(list))
		for _, p := range list {
			views = append(views, newProductResponse(p))
		}
		responses.WriteSuccess(w, views)
	}
}

// ProductShow serves one product by slug.
func ProductShow(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}

// MembershipsList serves the active membership tiers ordered by monthly price.
func MembershipsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		list, err := svc.ListMemberships(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]membershipResponse, 0, len(list))
		for _, m := range list {
			views = append(views, newMembershipResponse(m))
		}
		responses.WriteSuccess(w, views)
	}
}

// MembershipShow serves one membership by slug.
func MembershipShow(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		membership, err := svc.GetMembershipBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMembershipResponse(*membership))
	}
}

// ProgramsList serves the active training programs.
func ProgramsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		list, err := svc.ListPrograms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]programResponse, 0, len(list))
		for _, p := range list {
			views = append(views, newProgramResponse(p))
		}
		responses.WriteSuccess(w, views)
	}
}

// ProgramShow serves one training program by slug.
func ProgramShow(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		program, err := svc.GetProgramBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProgramResponse(*program))
	}
}
