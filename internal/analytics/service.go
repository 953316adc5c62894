package analytics

import (
	"context"
	"fmt"

	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

const topProductsLimit = 5

// Summary is the admin dashboard payload.
type Summary struct {
	OrderCount     int64         `json:"order_count"`
	RevenueTotal   string        `json:"revenue_total"`
	OrdersByStatus []StatusCount `json:"orders_by_status"`
	TopProducts    []TopProduct  `json:"top_products"`
}

// Service serves the admin analytics summary.
type Service interface {
	Summarize(ctx context.Context) (*Summary, error)
}

type service struct {
	repo *Repository
}

// NewService builds an analytics service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summarize(ctx context.Context) (*Summary, error) {
	count, err := s.repo.OrderCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	revenue, err := s.repo.RevenueTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	byStatus, err := s.repo.OrdersByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "group orders by status")
	}
	top, err := s.repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank products")
	}

	return &Summary{
		OrderCount:     count,
		RevenueTotal:   revenue.StringFixed(2),
		OrdersByStatus: byStatus,
		TopProducts:    top,
	}, nil
}
