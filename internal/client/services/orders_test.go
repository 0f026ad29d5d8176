package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

type fakeOrders struct {
	created []string
	keys    []string
}

func (f *fakeOrders) List(_ context.Context, page, size int) (*models.Page[models.Order], error) {
	return &models.Page[models.Order]{Page: page, Size: size}, nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (f *fakeOrders) Create(_ context.Context, req models.CheckoutRequest, key string) (*models.Order, error) {
	f.keys = append(f.keys, key)
	f.created = append(f.created, req.PaymentMethod)
	return &models.Order{ID: "o1", Status: models.OrderPending}, nil
}

var address = models.Address{
	FullName: "Ann Lee",
	Phone:    "+44 20 7946 0000",
	Street:   "1 High St",
	City:     "London",
	Country:  "UK",
}

func TestCheckout(t *testing.T) {
	orders := &fakeOrders{}
	remote := &fakeRemote{items: []models.CartItem{{ProductID: "p1", Quantity: 1}}}
	svc := NewOrderService(orders, remote, nil).(*orderService)
	svc.newKey = func() string { return "key-1" }

	o, err := svc.Checkout(context.Background(), models.CheckoutRequest{ShippingAddress: address, PaymentMethod: "COD"})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, []string{"key-1"}, orders.keys)
}

func TestCheckout_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartItem
		req   models.CheckoutRequest
		want  error
	}{
		{"empty cart", nil, models.CheckoutRequest{ShippingAddress: address, PaymentMethod: "CARD"}, ErrEmptyCart},
		{"no address", []models.CartItem{{ProductID: "p1", Quantity: 1}}, models.CheckoutRequest{PaymentMethod: "CARD"}, common.ErrorValidation},
		{"bad payment", []models.CartItem{{ProductID: "p1", Quantity: 1}}, models.CheckoutRequest{ShippingAddress: address, PaymentMethod: "BARTER"}, common.ErrorValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrders{}
			svc := NewOrderService(orders, &fakeRemote{items: tt.items}, nil)

			_, err := svc.Checkout(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, orders.created)
		})
	}
}

func TestListAndGetOrder(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, &fakeRemote{}, nil)
	ctx := context.Background()

	page, err := svc.ListOrders(ctx, -3, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)

	o, err := svc.GetOrder(ctx, "o9")
	require.NoError(t, err)
	assert.Equal(t, "o9", o.ID)

	_, err = svc.GetOrder(ctx, "")
	require.ErrorIs(t, err, common.ErrorValidation)
}
