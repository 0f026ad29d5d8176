package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

type OrderAPI struct {
	c client.Client
}

func NewOrderAPI(c client.Client) *OrderAPI {
	return &OrderAPI{c: c}
}

func (a *OrderAPI) List(ctx context.Context, page, size int) (*models.Page[models.Order], error) {
	var out models.Page[models.Order]
	p, err := a.c.Get(ctx, "/orders", pageQuery(page, size), &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *OrderAPI) Get(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	p, err := a.c.Get(ctx, "/orders/"+url.PathEscape(id), nil, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create places an order from the remote cart. idempotencyKey lets the
// backend drop a replayed checkout.
func (a *OrderAPI) Create(ctx context.Context, req models.CheckoutRequest, idempotencyKey string) (*models.Order, error) {
	h := http.Header{}
	if idempotencyKey != "" {
		h.Set(common.IdempotencyKeyHeader, idempotencyKey)
	}
	p, err := a.c.Do(ctx, &client.Request{Method: http.MethodPost, Path: "/orders", Body: req, Header: h})
	if err := check(p, err); err != nil {
		return nil, err
	}
	var out models.Order
	if err := p.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

type InventoryAPI struct {
	c client.Client
}

func NewInventoryAPI(c client.Client) *InventoryAPI {
	return &InventoryAPI{c: c}
}

func (a *InventoryAPI) Get(ctx context.Context, productID string) (*models.Inventory, error) {
	var out models.Inventory
	p, err := a.c.Get(ctx, "/inventory/"+url.PathEscape(productID), nil, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	if out.ProductID == "" {
		out.ProductID = productID
	}
	return &out, nil
}

type ReviewAPI struct {
	c client.Client
}

func NewReviewAPI(c client.Client) *ReviewAPI {
	return &ReviewAPI{c: c}
}

func (a *ReviewAPI) ListByProduct(ctx context.Context, productID string, page, size int) (*models.Page[models.Review], error) {
	var out models.Page[models.Review]
	p, err := a.c.Get(ctx, "/reviews/product/"+url.PathEscape(productID), pageQuery(page, size), &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ReviewAPI) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	var out models.Review
	p, err := a.c.Post(ctx, "/reviews", req, &out)
	if err := check(p, err); err != nil {
		return nil, err
	}
	return &out, nil
}
