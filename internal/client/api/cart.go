package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
)

// CartAPI is the remote cart of the order backend.
type CartAPI struct {
	c client.Client
}

func NewCartAPI(c client.Client) *CartAPI {
	return &CartAPI{c: c}
}

func (a *CartAPI) Get(ctx context.Context) ([]models.CartItem, error) {
	return a.items(a.c.Do(ctx, &client.Request{Method: http.MethodGet, Path: "/cart"}))
}

func (a *CartAPI) AddItem(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	return a.items(a.c.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/cart/items",
		Body:   models.AddCartItemRequest{ProductID: productID, Quantity: quantity},
	}))
}

func (a *CartAPI) UpdateItem(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	return a.items(a.c.Do(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   "/cart/items/" + url.PathEscape(productID),
		Body:   models.UpdateCartItemRequest{Quantity: quantity},
	}))
}

func (a *CartAPI) RemoveItem(ctx context.Context, productID string) ([]models.CartItem, error) {
	return a.items(a.c.Do(ctx, &client.Request{Method: http.MethodDelete, Path: "/cart/items/" + url.PathEscape(productID)}))
}

func (a *CartAPI) Clear(ctx context.Context) error {
	p, err := a.c.Delete(ctx, "/cart", nil)
	return check(p, err)
}

// MergeResult is the answer to a merge that reached the backend. Failed
// is set when the backend replied with an error body; the merge is still
// considered delivered.
type MergeResult struct {
	Items   []models.CartItem
	Failed  bool
	Message string
}

// Merge submits the guest items in one request. Only transport failures
// and unrecoverable 401s come back as errors.
func (a *CartAPI) Merge(ctx context.Context, items []models.MergeItem) (*MergeResult, error) {
	p, err := a.c.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/cart/merge",
		Body:   models.MergeCartRequest{Items: items},
	})
	if err != nil {
		return nil, err
	}
	if p.Failed() {
		return &MergeResult{Failed: true, Message: newError(p).Message}, nil
	}
	merged, err := decodeItems(p.Data)
	if err != nil {
		return &MergeResult{Failed: true, Message: err.Error()}, nil
	}
	return &MergeResult{Items: merged}, nil
}

func (a *CartAPI) items(p *client.Payload, err error) ([]models.CartItem, error) {
	if err := check(p, err); err != nil {
		return nil, err
	}
	return decodeItems(p.Data)
}

// decodeItems accepts either a cart object or a bare item list.
func decodeItems(data json.RawMessage) ([]models.CartItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []models.CartItem{}, nil
	}
	var items []models.CartItem
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
	} else {
		var cart models.Cart
		if err := json.Unmarshal(data, &cart); err != nil {
			return nil, err
		}
		items = cart.Items
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}
