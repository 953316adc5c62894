package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// ItemView is one order line in API responses. Price is the unit price
// captured at order time, fixed to two decimals.
type ItemView struct {
	ID        uuid.UUID     `json:"id"`
	ProductID uuid.UUID     `json:"product_id"`
	Name      string        `json:"name,omitempty"`
	ImageURL  string        `json:"image_url,omitempty"`
	Price     string        `json:"price"`
	Quantity  int           `json:"quantity"`
	Metadata  types.JSONMap `json:"metadata,omitempty"`
}

// View is the API shape of one order.
type View struct {
	ID              uuid.UUID         `json:"id"`
	Email           string            `json:"email"`
	Status          enums.OrderStatus `json:"status"`
	Total           string            `json:"total"`
	CouponID        *uuid.UUID        `json:"coupon_id,omitempty"`
	ShippingAddress types.JSONMap     `json:"shipping_address,omitempty"`
	BillingAddress  types.JSONMap     `json:"billing_address,omitempty"`
	Metadata        types.JSONMap     `json:"metadata,omitempty"`
	StripeSessionID *string           `json:"stripe_session_id,omitempty"`
	Items           []ItemView        `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// FromModel maps a loaded order onto its API shape.
func FromModel(order *models.Order) View {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		view := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Metadata:  item.Metadata,
		}
		if item.Product != nil {
			view.Name = item.Product.Name
			if item.Product.ImageURL != nil {
				view.ImageURL = *item.Product.ImageURL
			}
		}
		items = append(items, view)
	}

	return View{
		ID:              order.ID,
		Email:           order.Email,
		Status:          order.Status,
		Total:           order.Total.StringFixed(2),
		CouponID:        order.CouponID,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Metadata:        order.Metadata,
		StripeSessionID: order.StripeSessionID,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
