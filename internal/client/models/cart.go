package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart. Guest carts persist the product fields
// alongside productId so the cart can be shown offline.
type CartItem struct {
	ID        string          `json:"id,omitempty"`
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Name      string          `json:"name,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// UnmarshalJSON accepts entries keyed only by "id", as older guest carts
// were written.
func (c *CartItem) UnmarshalJSON(b []byte) error {
	type plain CartItem
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.ProductID == "" {
		p.ProductID = p.ID
	}
	*c = CartItem(p)
	return nil
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// NewCartItem builds a line for product.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ProductID: p.ID,
		Quantity:  quantity,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}
}

// Cart is the order backend's remote cart.
type Cart struct {
	ID         string          `json:"id,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

type MergeItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type MergeCartRequest struct {
	Items []MergeItem `json:"items"`
}
