package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/internal/auth"
	"github.com/forgefitlabs/forgefit-backend/internal/cart"
	"github.com/forgefitlabs/forgefit-backend/internal/coupons"
	"github.com/forgefitlabs/forgefit-backend/internal/customers"
	"github.com/forgefitlabs/forgefit-backend/internal/orders"
	"github.com/forgefitlabs/forgefit-backend/internal/payments"
	"github.com/forgefitlabs/forgefit-backend/pkg/db"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// Request is the full checkout payload. Items are optional for signed-in
// buyers, whose session cart is used as-is; guests must submit them. Login
// and Register allow inline sign-in, but neither is required: a guest with
// an email checks out against a user-less order.
type Request struct {
	Items           []cart.LineInput         `json:"items" validate:"omitempty,dive"`
	CouponCode      string                   `json:"coupon_code"`
	Email           string                   `json:"email" validate:"omitempty,email"`
	ShippingAddress types.JSONMap            `json:"shipping_address"`
	BillingAddress  types.JSONMap            `json:"billing_address"`
	SameAsShipping  bool                     `json:"same_as_shipping"`
	Metadata        types.JSONMap            `json:"metadata"`
	Login           *auth.LoginRequest       `json:"login"`
	Register        *auth.RegisterRequest    `json:"register"`
	CustomerInfo    *customers.SnapshotInput `json:"customer_info"`
	SaveInfo        bool                     `json:"save_info"`
}

// Response carries the order snapshot, the payment redirect handle, and the
// session tokens when sign-in happened inline.
type Response struct {
	Order   orders.View        `json:"order"`
	Payment payments.Session   `json:"payment"`
	Auth    *auth.AuthResponse `json:"auth,omitempty"`
}

// Service orchestrates checkout end to end.
type Service interface {
	Checkout(ctx context.Context, userID *uuid.UUID, req Request) (*Response, error)
}

type cartService interface {
	Current(userID uuid.UUID) cart.State
	Load(ctx context.Context, userID uuid.UUID) (cart.State, error)
	Sync(ctx context.Context, userID uuid.UUID, lines []cart.LineInput) (cart.State, error)
	Quote(ctx context.Context, lines []cart.LineInput) (cart.State, error)
}

type loginService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
}

type registerService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code string) (*models.Coupon, error)
}

type snapshotSaver interface {
	EnqueueSnapshot(input customers.SnapshotInput)
}

// ServiceParams bundles the orchestrator's dependencies. Login, Register,
// and Customers are optional; checkout works without inline auth or the
// guest snapshot path.
type ServiceParams struct {
	DB        *db.Client
	Cart      cartService
	Login     loginService
	Register  registerService
	Coupons   couponValidator
	Customers snapshotSaver
	Payments  payments.Gateway
}

type service struct {
	db        *db.Client
	cart      cartService
	login     loginService
	register  registerService
	coupons   couponValidator
	customers snapshotSaver
	payments  payments.Gateway
}

// NewService constructs the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	return &service{
		db:        params.DB,
		cart:      params.Cart,
		login:     params.Login,
		register:  params.Register,
		coupons:   params.Coupons,
		customers: params.Customers,
		payments:  params.Payments,
	}, nil
}

// Checkout runs the full flow: establish the user (or admit the guest),
// snapshot the cart, validate the coupon, write order plus items in one
// transaction, redeem the coupon inside that transaction, hand the guest
// snapshot to the async saver, and finally request the payment session.
func (s *service) Checkout(ctx context.Context, userID *uuid.UUID, req Request) (*Response, error) {
	// The confirm-password check must fire before any auth or persistence
	// work, even though the register service repeats it.
	if req.Register != nil && req.Register.Password != req.Register.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	uid, authResp, err := s.establishUser(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	email := settlementEmail(req, authResp)
	if uid == nil && email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required for guest checkout")
	}

	state, err := s.snapshotCart(ctx, uid, req.Items)
	if err != nil {
		return nil, err
	}
	if len(state.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		if s.coupons == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupons are not available")
		}
		coupon, err = s.coupons.Validate(ctx, req.CouponCode)
		if err != nil {
			return nil, err
		}
	}

	order, err := s.writeOrder(ctx, uid, email, req, state, coupon)
	if err != nil {
		return nil, err
	}

	// Snapshots are only kept for guests; signed-in buyers already have a
	// profile to prefill from.
	if uid == nil && req.SaveInfo && req.CustomerInfo != nil && s.customers != nil {
		s.customers.EnqueueSnapshot(*req.CustomerInfo)
	}

	session, err := s.payments.CreateSession(ctx, payments.SessionInput{
		OrderID: order.ID,
		Email:   email,
		Lines:   sessionLines(order.Items),
	})
	if err != nil {
		return nil, err
	}

	if err := orders.NewRepository(s.db.DB()).SetStripeSession(ctx, order.ID, session.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment session")
	}
	order.StripeSessionID = &session.ID

	return &Response{
		Order:   orders.FromModel(order),
		Payment: *session,
		Auth:    authResp,
	}, nil
}

// establishUser resolves who the order belongs to. A nil result with a nil
// error is a guest checkout.
func (s *service) establishUser(ctx context.Context, userID *uuid.UUID, req Request) (*uuid.UUID, *auth.AuthResponse, error) {
	if userID != nil {
		return userID, nil, nil
	}
	switch {
	case req.Register != nil:
		if s.register == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "registration is not available")
		}
		resp, err := s.register.Register(ctx, *req.Register)
		if err != nil {
			return nil, nil, err
		}
		return &resp.User.ID, resp, nil
	case req.Login != nil:
		if s.login == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "sign-in is not available")
		}
		resp, err := s.login.Login(ctx, *req.Login)
		if err != nil {
			return nil, nil, err
		}
		return &resp.User.ID, resp, nil
	default:
		return nil, nil, nil
	}
}

// snapshotCart syncs client-submitted lines when present, otherwise works
// from the session state, loading the persisted cart when the session is
// cold. Guests have no session or persisted cart, so their submitted lines
// are priced directly.
func (s *service) snapshotCart(ctx context.Context, userID *uuid.UUID, items []cart.LineInput) (cart.State, error) {
	if userID == nil {
		return s.cart.Quote(ctx, items)
	}
	if len(items) > 0 {
		return s.cart.Sync(ctx, *userID, items)
	}
	state := s.cart.Current(*userID)
	if len(state.Lines) > 0 {
		return state, nil
	}
	return s.cart.Load(ctx, *userID)
}

// writeOrder creates the order header and its lines in one transaction, and
// consumes a coupon use inside that same transaction.
func (s *service) writeOrder(ctx context.Context, userID *uuid.UUID, email string, req Request, state cart.State, coupon *models.Coupon) (*models.Order, error) {
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Email:           email,
		Status:          enums.OrderStatusPending,
		Total:           state.Subtotal(),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billingAddress(req),
		Metadata:        req.Metadata,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	items := orderItems(order.ID, state.Lines)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := orders.NewRepository(tx)
		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order items")
		}
		if coupon != nil {
			if err := coupons.NewRepository(tx).Redeem(ctx, coupon.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, "coupon is no longer available")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func settlementEmail(req Request, authResp *auth.AuthResponse) string {
	if authResp != nil {
		return authResp.User.Email
	}
	if req.Email != "" {
		return req.Email
	}
	if req.CustomerInfo != nil {
		return req.CustomerInfo.Email
	}
	return ""
}

func billingAddress(req Request) types.JSONMap {
	if req.SameAsShipping || len(req.BillingAddress) == 0 {
		return req.ShippingAddress
	}
	return req.BillingAddress
}

// orderItems maps session lines one-to-one onto order lines, carrying the
// variant selection as line metadata and the catalog price as the snapshot
// price.
func orderItems(orderID uuid.UUID, lines []cart.Line) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if line.Size != "" || line.Color != "" {
			item.Metadata = types.JSONMap{}
			if line.Size != "" {
				item.Metadata["size"] = line.Size
			}
			if line.Color != "" {
				item.Metadata["color"] = line.Color
			}
		}
		items = append(items, item)
	}
	return items
}

func sessionLines(items []models.OrderItem) []payments.SessionLine {
	lines := make([]payments.SessionLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, payments.SessionLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
