package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

const paymentFailedMessage = "payment session could not be created"

// SessionLine is one order line to settle. Prices are resolved from the
// catalog here; whatever the client displayed is irrelevant.
type SessionLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// SessionInput describes the order a hosted payment session is built for.
type SessionInput struct {
	OrderID uuid.UUID
	Email   string
	Lines   []SessionLine
}

// Session is the redirect handle returned to the client.
type Session struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// Gateway builds hosted Stripe Checkout sessions for orders.
type Gateway interface {
	CreateSession(ctx context.Context, input SessionInput) (*Session, error)
}

type catalogResolver interface {
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// GatewayParams bundles the dependencies required to build the gateway.
type GatewayParams struct {
	Stripe   StripeCheckoutClient
	Catalog  catalogResolver
	Checkout config.CheckoutConfig
}

type gateway struct {
	stripe  StripeCheckoutClient
	catalog catalogResolver
	cfg     config.CheckoutConfig
}

// NewGateway constructs a payment gateway with the provided dependencies.
func NewGateway(params GatewayParams) (Gateway, error) {
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog resolver is required")
	}
	return &gateway{
		stripe:  params.Stripe,
		catalog: params.Catalog,
		cfg:     params.Checkout,
	}, nil
}

// CreateSession builds a card payment session with one line item per order
// line. Unit amounts are the catalog price in minor units. Any processor
// failure, including a session coming back without an id, surfaces as a
// single payment-failed error with no retry.
func (g *gateway) CreateSession(ctx context.Context, input SessionInput) (*Session, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no lines to settle")
	}

	ids := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}
	resolved, err := g.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve prices")
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(input.Lines))
	for _, line := range input.Lines {
		product, ok := resolved[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown product %s", line.ProductID))
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(product.Price.Shift(2).IntPart()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(product.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripe.String(g.cfg.SuccessURL()),
		CancelURL:          stripe.String(g.cfg.CancelURL()),
		ClientReferenceID:  stripe.String(input.OrderID.String()),
	}
	params.AddMetadata("order_id", input.OrderID.String())
	if input.Email != "" {
		params.CustomerEmail = stripe.String(input.Email)
	}

	session, err := g.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, paymentFailedMessage)
	}
	if session == nil || session.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodePayment, paymentFailedMessage)
	}

	return &Session{ID: session.ID, URL: session.URL}, nil
}
