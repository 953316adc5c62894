package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

// Service owns the session cart states and the load/save passes against the
// persisted cart rows.
type Service interface {
	Load(ctx context.Context, userID uuid.UUID) (State, error)
	Save(ctx context.Context, userID uuid.UUID) (State, error)
	Sync(ctx context.Context, userID uuid.UUID, lines []LineInput) (State, error)
	Quote(ctx context.Context, lines []LineInput) (State, error)
	Dispatch(userID uuid.UUID, action Action) State
	Current(userID uuid.UUID) State
	Release(userID uuid.UUID)
}

// LineInput is one client-submitted cart line. Price is intentionally absent;
// the catalog is the only price source.
type LineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type cartRepository interface {
	ResolveOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
}

type catalogResolver interface {
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Store   *StateStore
	Repo    cartRepository
	Catalog catalogResolver
}

type service struct {
	store   *StateStore
	repo    cartRepository
	catalog catalogResolver
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog resolver is required")
	}
	return &service{store: params.Store, repo: params.Repo, catalog: params.Catalog}, nil
}

// Load rebuilds the session state from the persisted cart. Every line is
// re-resolved against the catalog; rows whose product has vanished are
// dropped. The rebuilt state replaces whatever the session held.
func (s *service) Load(ctx context.Context, userID uuid.UUID) (State, error) {
	s.store.Dispatch(userID, Action{Type: ActionSetLoading, Flag: true})

	cart, err := s.repo.ResolveOrCreate(ctx, userID)
	if err != nil {
		return s.fail(userID, "failed to load cart", err)
	}
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return s.fail(userID, "failed to load cart", err)
	}

	state := Reduce(s.store.Current(userID), Action{Type: ActionClearCart})
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		line := lineFromProduct(*item.Product)
		for n := 0; n < item.Quantity; n++ {
			state = Reduce(state, Action{Type: ActionAddItem, Line: line})
		}
	}
	state.Loading = false
	state.Message = ""
	s.store.Replace(userID, state)
	return state, nil
}

// Save writes the session state through as a full replace of the persisted
// lines. Variant selections collapse onto (cart_id, product_id) rows; there
// is no diffing and no rollback on failure.
func (s *service) Save(ctx context.Context, userID uuid.UUID) (State, error) {
	state := s.store.Current(userID)

	cart, err := s.repo.ResolveOrCreate(ctx, userID)
	if err != nil {
		return s.fail(userID, "failed to save cart", err)
	}
	if err := s.repo.ReplaceItems(ctx, cart.ID, collapseLines(state.Lines)); err != nil {
		return s.fail(userID, "failed to save cart", err)
	}
	return state, nil
}

// Sync replaces the session state with the client-submitted lines, pricing
// each against the catalog, then runs a save pass.
func (s *service) Sync(ctx context.Context, userID uuid.UUID, lines []LineInput) (State, error) {
	state, err := s.priceLines(ctx, Reduce(s.store.Current(userID), Action{Type: ActionClearCart}), lines)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return State{}, err
		}
		return s.fail(userID, "failed to sync cart", err)
	}
	s.store.Replace(userID, state)

	return s.Save(ctx, userID)
}

// Quote prices client-submitted lines against the catalog without touching
// any session state or the persisted cart. Guest checkout works from this.
func (s *service) Quote(ctx context.Context, lines []LineInput) (State, error) {
	if len(lines) == 0 {
		return State{}, nil
	}
	state, err := s.priceLines(ctx, State{}, lines)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return State{}, err
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to quote cart")
	}
	return state, nil
}

// priceLines folds the submitted lines onto the given state, resolving each
// against the catalog. Unknown products reject the whole batch.
func (s *service) priceLines(ctx context.Context, state State, lines []LineInput) (State, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	resolved, err := s.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return State{}, err
	}

	for _, input := range lines {
		product, ok := resolved[input.ProductID]
		if !ok {
			return State{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown product %s", input.ProductID))
		}
		line := lineFromProduct(product)
		line.Size = input.Size
		line.Color = input.Color
		state = Reduce(state, Action{Type: ActionAddItem, Line: line})
		state = Reduce(state, Action{
			Type:     ActionUpdateQuantity,
			Identity: line.LineIdentity,
			Quantity: input.Quantity,
		})
	}
	return state, nil
}

func (s *service) Dispatch(userID uuid.UUID, action Action) State {
	return s.store.Dispatch(userID, action)
}

func (s *service) Current(userID uuid.UUID) State {
	return s.store.Current(userID)
}

func (s *service) Release(userID uuid.UUID) {
	s.store.Release(userID)
}

func (s *service) fail(userID uuid.UUID, message string, err error) (State, error) {
	state := s.store.Dispatch(userID, Action{Type: ActionSetError, Message: message})
	return state, pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func lineFromProduct(product models.Product) Line {
	line := Line{
		LineIdentity: LineIdentity{ProductID: product.ID},
		Name:         product.Name,
		Price:        product.Price,
	}
	if product.ImageURL != nil {
		line.ImageURL = *product.ImageURL
	}
	return line
}

// collapseLines folds session lines onto (product_id, quantity) rows, summing
// quantities across size and color variants.
func collapseLines(lines []Line) []models.CartItem {
	byProduct := make(map[uuid.UUID]int, len(lines))
	order := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, seen := byProduct[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		byProduct[line.ProductID] += line.Quantity
	}

	items := make([]models.CartItem, 0, len(order))
	for _, productID := range order {
		items = append(items, models.CartItem{
			ProductID: productID,
			Quantity:  byProduct[productID],
		})
	}
	return items
}
