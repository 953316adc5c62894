package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/pagination"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// Service serves owner-scoped order reads. Orders are written by checkout;
// nothing here mutates them.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*View, error)
}

type orderRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type service struct {
	repo orderRepository
}

// NewService builds an order query service backed by the provided repository.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error) {
	page = pagination.Normalize(page)
	orders, total, err := s.repo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]View, 0, len(orders))
	for i := range orders {
		views = append(views, FromModel(&orders[i]))
	}
	return &types.Page{Items: views, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Get loads one order. Orders belonging to other users read as not found.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*View, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	view := FromModel(order)
	return &view, nil
}
