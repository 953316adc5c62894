package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgefitlabs/forgefit-backend/internal/auth"
	"github.com/forgefitlabs/forgefit-backend/internal/cart"
	"github.com/forgefitlabs/forgefit-backend/internal/coupons"
	"github.com/forgefitlabs/forgefit-backend/internal/customers"
	"github.com/forgefitlabs/forgefit-backend/internal/payments"
	"github.com/forgefitlabs/forgefit-backend/internal/products"
	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

func setupCheckoutDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			price NUMERIC NOT NULL,
			image_url TEXT,
			category TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (cart_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			total NUMERIC NOT NULL,
			coupon_id TEXT,
			shipping_address TEXT,
			billing_address TEXT,
			metadata TEXT,
			stripe_session_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price NUMERIC NOT NULL,
			metadata TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			discount_percent INTEGER NOT NULL DEFAULT 0,
			expires_at DATETIME,
			max_uses INTEGER NOT NULL,
			uses INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	t.Cleanup(func() {
		for _, table := range []string{"order_items", "orders", "cart_items", "carts", "coupons", "products"} {
			client.DB().Exec("DELETE FROM " + table)
		}
		client.Close()
	})

	return client
}

type fakeGateway struct {
	calls   int
	input   payments.SessionInput
	session *payments.Session
	err     error
}

func (f *fakeGateway) CreateSession(_ context.Context, input payments.SessionInput) (*payments.Session, error) {
	f.calls++
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeRegister struct {
	calls int
	resp  *auth.AuthResponse
}

func (f *fakeRegister) Register(context.Context, auth.RegisterRequest) (*auth.AuthResponse, error) {
	f.calls++
	return f.resp, nil
}

type fakeSaver struct {
	snapshots []customers.SnapshotInput
}

func (f *fakeSaver) EnqueueSnapshot(input customers.SnapshotInput) {
	f.snapshots = append(f.snapshots, input)
}

func newCheckoutService(t *testing.T, client *db.Client, gw payments.Gateway, register registerService, saver snapshotSaver) Service {
	t.Helper()

	catalog, err := products.NewService(products.NewRepository(client.DB()))
	require.NoError(t, err)

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Store:   cart.NewStateStore(),
		Repo:    cart.NewRepository(client.DB()),
		Catalog: catalog,
	})
	require.NoError(t, err)

	couponSvc, err := coupons.NewService(coupons.NewRepository(client.DB()))
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:        client,
		Cart:      cartSvc,
		Register:  register,
		Coupons:   couponSvc,
		Customers: saver,
		Payments:  gw,
	})
	require.NoError(t, err)
	return svc
}

func seedCheckoutProduct(t *testing.T, client *db.Client, slug, price string) models.Product {
	t.Helper()
	product := models.Product{
		ID:     uuid.New(),
		Name:   slug,
		Slug:   slug,
		Price:  decimal.RequireFromString(price),
		Status: enums.CatalogStatusActive,
	}
	require.NoError(t, client.DB().Create(&product).Error)
	return product
}

func strPtr(s string) *string { return &s }

func orderCount(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&models.Order{}).Count(&count).Error)
	return count
}

func TestCheckoutHappyPath(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_test_42", URL: "https://stripe.test/cs_test_42"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	bottle := seedCheckoutProduct(t, client, "steel-bottle", "5.00")
	userID := uuid.New()

	resp, err := svc.Checkout(context.Background(), &userID, Request{
		Email: "jo@forgefit.io",
		Items: []cart.LineInput{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: bottle.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "25.00", resp.Order.Total)
	assert.Equal(t, enums.OrderStatusPending, resp.Order.Status)
	assert.Len(t, resp.Order.Items, 2)
	assert.Equal(t, "cs_test_42", resp.Payment.ID)

	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, "jo@forgefit.io", gw.input.Email)
	assert.Len(t, gw.input.Lines, 2)

	var stored models.Order
	require.NoError(t, client.DB().First(&stored, "id = ?", resp.Order.ID).Error)
	require.NotNil(t, stored.StripeSessionID)
	assert.Equal(t, "cs_test_42", *stored.StripeSessionID)
	assert.Equal(t, "25.00", stored.Total.StringFixed(2))
	assert.Equal(t, "jo@forgefit.io", stored.Email)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, *stored.UserID)

	var itemCount int64
	require.NoError(t, client.DB().Model(&models.OrderItem{}).Where("order_id = ?", stored.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 2, itemCount)
}

func TestCheckoutEmptyCartRejectedWithoutOrderRow(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_x"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	userID := uuid.New()
	_, err := svc.Checkout(context.Background(), &userID, Request{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	assert.EqualValues(t, 0, orderCount(t, client))
	assert.Zero(t, gw.calls)
}

func TestCheckoutPasswordMismatchFailsBeforeAnyCall(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{}
	register := &fakeRegister{}
	svc := newCheckoutService(t, client, gw, register, nil)

	_, err := svc.Checkout(context.Background(), nil, Request{
		Register: &auth.RegisterRequest{
			FirstName:       "Jo",
			LastName:        "Lifter",
			Email:           "jo@forgefit.io",
			Password:        "hunter2hunter2",
			ConfirmPassword: "different",
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	assert.Zero(t, register.calls)
	assert.Zero(t, gw.calls)
	assert.EqualValues(t, 0, orderCount(t, client))
}

func TestCheckoutCouponRedeemedInOrderTransaction(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_c"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	coupon := models.Coupon{ID: uuid.New(), Code: "SUMMER10", DiscountPercent: 10, MaxUses: 3, Uses: 0}
	require.NoError(t, client.DB().Create(&coupon).Error)

	userID := uuid.New()
	resp, err := svc.Checkout(context.Background(), &userID, Request{
		CouponCode: "summer10",
		Items:      []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Order.CouponID)
	assert.Equal(t, coupon.ID, *resp.Order.CouponID)

	var reloaded models.Coupon
	require.NoError(t, client.DB().First(&reloaded, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, reloaded.Uses)
}

func TestCheckoutExhaustedCouponRejectedWithoutOrder(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_c"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	// No expiry; exhaustion alone must reject the checkout.
	coupon := models.Coupon{ID: uuid.New(), Code: "GONE", MaxUses: 1, Uses: 1}
	require.NoError(t, client.DB().Create(&coupon).Error)

	userID := uuid.New()
	_, err := svc.Checkout(context.Background(), &userID, Request{
		CouponCode: "GONE",
		Items:      []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	assert.EqualValues(t, 0, orderCount(t, client))
	assert.Zero(t, gw.calls)
}

func TestCheckoutPaymentFailureIsTerminal(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{err: pkgerrors.Wrap(pkgerrors.CodePayment, errors.New("stripe down"), "payment session could not be created")}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	userID := uuid.New()

	_, err := svc.Checkout(context.Background(), &userID, Request{
		Items: []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePayment, typed.Code())
	assert.Equal(t, 1, gw.calls)

	// The order snapshot stays pending with no session handle; nothing retries.
	var stored models.Order
	require.NoError(t, client.DB().Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, enums.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.StripeSessionID)
}

func TestCheckoutGuestWithEmailCreatesUserlessOrder(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_guest", URL: "https://stripe.test/cs_guest"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")

	resp, err := svc.Checkout(context.Background(), nil, Request{
		Email: "guest@forgefit.io",
		Items: []cart.LineInput{{ProductID: shirt.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "20.00", resp.Order.Total)
	assert.Equal(t, "guest@forgefit.io", resp.Order.Email)
	assert.Nil(t, resp.Auth)
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, "guest@forgefit.io", gw.input.Email)

	var stored models.Order
	require.NoError(t, client.DB().First(&stored, "id = ?", resp.Order.ID).Error)
	assert.Nil(t, stored.UserID)
	assert.Equal(t, "guest@forgefit.io", stored.Email)

	// Guest lines never land in any persisted cart.
	var cartCount int64
	require.NoError(t, client.DB().Model(&models.Cart{}).Count(&cartCount).Error)
	assert.EqualValues(t, 0, cartCount)
}

func TestCheckoutGuestWithoutEmailRejected(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_guest"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")

	_, err := svc.Checkout(context.Background(), nil, Request{
		Items: []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	assert.EqualValues(t, 0, orderCount(t, client))
	assert.Zero(t, gw.calls)
}

func TestCheckoutKeepsVariantLinesSeparate(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_v"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	userID := uuid.New()

	resp, err := svc.Checkout(context.Background(), &userID, Request{
		Email: "jo@forgefit.io",
		Items: []cart.LineInput{
			{ProductID: shirt.ID, Size: "M", Quantity: 1},
			{ProductID: shirt.ID, Size: "L", Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "30.00", resp.Order.Total)
	require.Len(t, resp.Order.Items, 2)

	var items []models.OrderItem
	require.NoError(t, client.DB().
		Where("order_id = ?", resp.Order.ID).
		Order("quantity ASC").
		Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "M", items[0].Metadata["size"])
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "L", items[1].Metadata["size"])
}

func TestCheckoutPersistsAddressesAndMetadata(t *testing.T) {
	client := setupCheckoutDB(t)
	gw := &fakeGateway{session: &payments.Session{ID: "cs_a"}}
	svc := newCheckoutService(t, client, gw, nil, nil)

	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	userID := uuid.New()
	shipping := types.JSONMap{"line1": "12 Dock Rd", "city": "Leeds", "postal_code": "LS1 4AB"}

	resp, err := svc.Checkout(context.Background(), &userID, Request{
		Email:           "jo@forgefit.io",
		Items:           []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
		ShippingAddress: shipping,
		SameAsShipping:  true,
		Metadata:        types.JSONMap{"source": "web"},
	})
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, client.DB().First(&stored, "id = ?", resp.Order.ID).Error)
	assert.Equal(t, "jo@forgefit.io", stored.Email)
	assert.Equal(t, "12 Dock Rd", stored.ShippingAddress["line1"])
	assert.Equal(t, "12 Dock Rd", stored.BillingAddress["line1"])
	assert.Equal(t, "web", stored.Metadata["source"])
}

func TestCheckoutSnapshotSavedOnlyForGuests(t *testing.T) {
	client := setupCheckoutDB(t)
	shirt := seedCheckoutProduct(t, client, "training-tee", "10.00")
	info := &customers.SnapshotInput{
		Email:        "guest@forgefit.io",
		FirstName:    "Jo",
		LastName:     "Lifter",
		AddressLine1: strPtr("12 Dock Rd"),
		City:         strPtr("Leeds"),
		PostalCode:   strPtr("LS1 4AB"),
		Country:      strPtr("GB"),
	}

	t.Run("authenticated buyer never snapshots", func(t *testing.T) {
		gw := &fakeGateway{session: &payments.Session{ID: "cs_s1"}}
		saver := &fakeSaver{}
		svc := newCheckoutService(t, client, gw, nil, saver)

		userID := uuid.New()
		_, err := svc.Checkout(context.Background(), &userID, Request{
			Email:        "jo@forgefit.io",
			Items:        []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
			CustomerInfo: info,
			SaveInfo:     true,
		})
		require.NoError(t, err)
		assert.Empty(t, saver.snapshots)
	})

	t.Run("guest opt-in snapshots", func(t *testing.T) {
		gw := &fakeGateway{session: &payments.Session{ID: "cs_s2"}}
		saver := &fakeSaver{}
		svc := newCheckoutService(t, client, gw, nil, saver)

		_, err := svc.Checkout(context.Background(), nil, Request{
			Items:        []cart.LineInput{{ProductID: shirt.ID, Quantity: 1}},
			CustomerInfo: info,
			SaveInfo:     true,
		})
		require.NoError(t, err)
		require.Len(t, saver.snapshots, 1)
		assert.Equal(t, "guest@forgefit.io", saver.snapshots[0].Email)
	})
}
