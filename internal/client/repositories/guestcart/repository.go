// Package guestcart persists the cart of a signed-out user in the local
// key-value store, as one JSON list under the "carts" key.
package guestcart

import (
	"context"

	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/kv"
	"github.com/dmitrijs2005/watchstore/internal/common"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

type Repository interface {
	// Load returns the stored cart. An absent or unparsable list is empty.
	Load(ctx context.Context) ([]models.CartItem, error)
	// Save replaces the stored list.
	Save(ctx context.Context, items []models.CartItem) error
	// Delete removes the key.
	Delete(ctx context.Context) error
	// Exists reports whether the key is present.
	Exists(ctx context.Context) (bool, error)
}

type KVRepository struct {
	store kv.Repository
	log   logging.Logger
}

func NewKVRepository(store kv.Repository, log logging.Logger) *KVRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &KVRepository{store: store, log: log}
}

func (r *KVRepository) Load(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	found, err := kv.GetJSON(ctx, r.store, common.GuestCartKey, &items)
	if !found {
		return []models.CartItem{}, err
	}
	if err != nil {
		r.log.Warn(ctx, "guest cart unreadable, starting empty", "error", err)
		return []models.CartItem{}, nil
	}

	out := items[:0]
	for _, it := range items {
		if it.ProductID != "" {
			out = append(out, it)
		}
	}
	if out == nil {
		out = []models.CartItem{}
	}
	return out, nil
}

func (r *KVRepository) Save(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	return kv.SetJSON(ctx, r.store, common.GuestCartKey, items)
}

func (r *KVRepository) Delete(ctx context.Context) error {
	return r.store.Delete(ctx, common.GuestCartKey)
}

func (r *KVRepository) Exists(ctx context.Context) (bool, error) {
	b, err := r.store.Get(ctx, common.GuestCartKey)
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

var _ Repository = (*KVRepository)(nil)
