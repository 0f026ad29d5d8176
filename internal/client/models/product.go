package models

import (
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/watchstore/internal/timex"
)

type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	BrandID     string          `json:"brandId,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Stock       int             `json:"stock,omitempty"`
	CreatedAt   timex.DateLike  `json:"createdAt"`
	UpdatedAt   timex.DateLike  `json:"updatedAt"`
}

// ProductFilter is the query of GET /products. Zero fields are not sent.
type ProductFilter struct {
	Page     int
	Size     int
	Brand    string
	Query    string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Sort     string
}

type Inventory struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Reserved  int    `json:"reserved"`
}

// Available is the stock that can still be ordered.
func (i Inventory) Available() int {
	if n := i.Quantity - i.Reserved; n > 0 {
		return n
	}
	return 0
}
