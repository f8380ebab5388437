// Package cart is the shopping cart state: a list of line items with
// derived totals and an open/closed flag for the cart panel. Every
// transition returns a new State and leaves the receiver untouched.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func ItemFromProduct(p catalog.Product) Item {
	return Item{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Quantity: 1}
}

// State keeps Total and ItemCount in step with Items after every transition.
type State struct {
	Items     []Item          `json:"items"`
	IsOpen    bool            `json:"isOpen"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func New() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// AddToCart bumps the quantity of an item already present, otherwise appends
// it with quantity 1.
func (s State) AddToCart(item Item) State {
	items := make([]Item, 0, len(s.Items)+1)
	found := false
	for _, it := range s.Items {
		if it.ID == item.ID {
			it.Quantity++
			found = true
		}
		items = append(items, it)
	}
	if !found {
		item.Quantity = 1
		items = append(items, item)
	}
	return s.withItems(items)
}

func (s State) RemoveFromCart(id string) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	return s.withItems(items)
}

// UpdateQuantity sets an absolute quantity; zero or less removes the item.
// Unknown ids leave the cart as it is.
func (s State) UpdateQuantity(id string, qty int) State {
	if qty <= 0 {
		return s.RemoveFromCart(id)
	}
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID == id {
			it.Quantity = qty
		}
		items = append(items, it)
	}
	return s.withItems(items)
}

func (s State) OpenCart() State {
	s.IsOpen = true
	return s
}

func (s State) CloseCart() State {
	s.IsOpen = false
	return s
}

func (s State) ClearCart() State {
	return s.withItems([]Item{})
}

// Checkout is a placeholder: it empties and closes the cart.
func (s State) Checkout() State {
	return s.ClearCart().CloseCart()
}

// Quantity reports the quantity held for id, zero when absent.
func (s State) Quantity(id string) int {
	for _, it := range s.Items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return 0
}

func (s State) withItems(items []Item) State {
	s.Items = items
	s.Total, s.ItemCount = totals(items)
	return s
}

func totals(items []Item) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.Subtotal())
		count += it.Quantity
	}
	return total, count
}

// FormatPrice renders a price for display, e.g. "$29.99".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
