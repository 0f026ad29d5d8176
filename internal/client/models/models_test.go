package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_UnmarshalFallsBackToID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"productId", `{"productId":"p1","quantity":2}`, "p1"},
		{"id only", `{"id":"p2","quantity":1,"name":"Seiko 5"}`, "p2"},
		{"both", `{"id":"line-9","productId":"p3","quantity":1}`, "p3"},
		{"neither", `{"quantity":1}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it CartItem
			require.NoError(t, json.Unmarshal([]byte(tt.in), &it))
			assert.Equal(t, tt.want, it.ProductID)
		})
	}
}

func TestCartItem_ListOfMixedEntries(t *testing.T) {
	var items []CartItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"p1","quantity":2,"price":199.5},
		{"productId":"p2","quantity":1,"price":"1200.00"}
	]`), &items))

	want := []CartItem{
		{ID: "p1", ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("199.5")},
		{ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("1200")},
	}
	if diff := cmp.Diff(want, items, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("199.99")},
		{ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("0.02")},
	}
	assert.True(t, CartTotal(items).Equal(decimal.RequireFromString("400")))
	assert.True(t, CartTotal(nil).IsZero())
}

func TestNewCartItem(t *testing.T) {
	p := Product{ID: "p1", Name: "Speedmaster", Brand: "Omega", Price: decimal.NewFromInt(6300)}
	it := NewCartItem(p, 3)
	assert.Equal(t, "p1", it.ProductID)
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, "Omega", it.Brand)
	assert.True(t, it.Subtotal().Equal(decimal.NewFromInt(18900)))
}

func TestOrder_DecodesArrayDates(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"o1",
		"status":"PENDING",
		"totalAmount":420.5,
		"createdAt":[2024,3,15,9,30,0,500000000],
		"updatedAt":null
	}`), &o))

	created, ok := o.CreatedAt.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 9, 30, 0, 500_000_000, time.Local), created)

	_, ok = o.UpdatedAt.Time()
	assert.False(t, ok)
	assert.Equal(t, OrderPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("420.5")))
}

func TestPage(t *testing.T) {
	var p Page[Product]
	require.NoError(t, json.Unmarshal([]byte(`{
		"content":[{"id":"p1","name":"Tissot PRX","price":650}],
		"page":1,"size":1,"totalElements":2,"totalPages":2
	}`), &p))

	require.Len(t, p.Content, 1)
	assert.Equal(t, "Tissot PRX", p.Content[0].Name)
	assert.True(t, p.Last())
	assert.False(t, Page[Product]{Page: 0, TotalPages: 2}.Last())
	assert.True(t, Page[Product]{}.Last())
}

func TestInventory_Available(t *testing.T) {
	assert.Equal(t, 3, Inventory{Quantity: 5, Reserved: 2}.Available())
	assert.Equal(t, 0, Inventory{Quantity: 1, Reserved: 4}.Available())
}
