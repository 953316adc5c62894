package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActionType names a cart state transition.
type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClearCart      ActionType = "CLEAR_CART"
	ActionToggleCart     ActionType = "TOGGLE_CART"
	ActionSetError       ActionType = "SET_ERROR"
	ActionSetLoading     ActionType = "SET_LOADING"
)

// LineIdentity is the merge key for cart lines. Two lines with the same
// product, size, and color are the same line.
type LineIdentity struct {
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// Line is one entry in the in-session cart. Price, name, and image come from
// the catalog at load time; they are display hints, never settlement inputs.
type Line struct {
	LineIdentity
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Quantity int             `json:"quantity"`
}

// State is the full cart state for one user session.
type State struct {
	Lines   []Line `json:"items"`
	Open    bool   `json:"is_open"`
	Loading bool   `json:"is_loading"`
	Message string `json:"error,omitempty"`
}

// Action is a tagged request for a state transition. Only the fields relevant
// to the Type are read.
type Action struct {
	Type     ActionType
	Line     Line
	Identity LineIdentity
	Quantity int
	Flag     bool
	Message  string
}

// Reduce applies one action to a state and returns the next state. Transitions
// are total: unknown action types and misses return the input unchanged.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionAddItem:
		return addItem(state, action.Line)
	case ActionRemoveItem:
		return removeItem(state, action.Identity)
	case ActionUpdateQuantity:
		return updateQuantity(state, action.Identity, action.Quantity)
	case ActionClearCart:
		state.Lines = nil
		return state
	case ActionToggleCart:
		state.Open = !state.Open
		return state
	case ActionSetError:
		state.Message = action.Message
		state.Loading = false
		return state
	case ActionSetLoading:
		state.Loading = action.Flag
		return state
	default:
		return state
	}
}

// addItem merges by line identity, always incrementing quantity by one. The
// incoming line's quantity is ignored.
func addItem(state State, line Line) State {
	next := cloneLines(state.Lines)
	for i := range next {
		if next[i].LineIdentity == line.LineIdentity {
			next[i].Quantity++
			state.Lines = next
			return state
		}
	}
	line.Quantity = 1
	state.Lines = append(next, line)
	return state
}

func removeItem(state State, identity LineIdentity) State {
	next := make([]Line, 0, len(state.Lines))
	for _, line := range state.Lines {
		if line.LineIdentity == identity {
			continue
		}
		next = append(next, line)
	}
	state.Lines = next
	return state
}

// updateQuantity sets the exact quantity for a line. Quantities below one
// drop the line so persisted rows never violate the positive-quantity check.
func updateQuantity(state State, identity LineIdentity, quantity int) State {
	if quantity < 1 {
		return removeItem(state, identity)
	}
	next := cloneLines(state.Lines)
	for i := range next {
		if next[i].LineIdentity == identity {
			next[i].Quantity = quantity
			break
		}
	}
	state.Lines = next
	return state
}

func cloneLines(lines []Line) []Line {
	next := make([]Line, len(lines))
	copy(next, lines)
	return next
}

// Subtotal sums price x quantity across all lines.
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount sums line quantities.
func (s State) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}
