// Package services holds the storefront use cases: the cart that lives
// either on this machine or on the order backend, the session transitions
// around it, and checkout.
package services

import (
	"context"

	"github.com/dmitrijs2005/watchstore/internal/client/api"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/client/repositories/guestcart"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

// RemoteCart is the order backend's cart. api.CartAPI implements it.
type RemoteCart interface {
	Get(ctx context.Context) ([]models.CartItem, error)
	AddItem(ctx context.Context, productID string, quantity int) ([]models.CartItem, error)
	UpdateItem(ctx context.Context, productID string, quantity int) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, productID string) ([]models.CartItem, error)
	Clear(ctx context.Context) error
	Merge(ctx context.Context, items []models.MergeItem) (*api.MergeResult, error)
}

// CartService picks the cart realm per call from the isAuthenticated flag
// the caller passes in; it keeps no session state of its own.
//
// Signed in, every call goes to the remote cart. Signed out, the cart is
// the guest list in local storage and no request is made.
type CartService interface {
	// GetCart never fails: a remote fetch error is logged and reads as an
	// empty cart.
	GetCart(ctx context.Context, isAuthenticated bool) []models.CartItem
	AddToCart(ctx context.Context, isAuthenticated bool, product models.Product, quantity int) ([]models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, isAuthenticated bool, productID string, quantity int) ([]models.CartItem, error)
	RemoveFromCart(ctx context.Context, isAuthenticated bool, productID string) ([]models.CartItem, error)
	ClearCart(ctx context.Context, isAuthenticated bool) ([]models.CartItem, error)
	// MergeGuestCart pushes items into the remote cart once, right after
	// login. On a transport failure the guest cart is kept and items are
	// returned unchanged.
	MergeGuestCart(ctx context.Context, items []models.CartItem) ([]models.CartItem, error)
}

type cartService struct {
	remote RemoteCart
	guest  guestcart.Repository
	log    logging.Logger
}

func NewCartService(remote RemoteCart, guest guestcart.Repository, log logging.Logger) CartService {
	if log == nil {
		log = logging.NewNop()
	}
	return &cartService{remote: remote, guest: guest, log: log.With("service", "cart")}
}

func (s *cartService) GetCart(ctx context.Context, isAuthenticated bool) []models.CartItem {
	if isAuthenticated {
		items, err := s.remote.Get(ctx)
		if err != nil {
			s.log.Error(ctx, "fetching remote cart", "error", err)
			return []models.CartItem{}
		}
		return nonNil(items)
	}

	items, err := s.guest.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "reading guest cart", "error", err)
		return []models.CartItem{}
	}
	return items
}

func (s *cartService) AddToCart(ctx context.Context, isAuthenticated bool, product models.Product, quantity int) ([]models.CartItem, error) {
	if err := validateProductID(product.ID); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	if isAuthenticated {
		items, err := s.remote.AddItem(ctx, product.ID, quantity)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	items, err := s.guest.Load(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.NewCartItem(product, quantity))
	}
	return s.saveGuest(ctx, items)
}

func (s *cartService) UpdateCartItemQuantity(ctx context.Context, isAuthenticated bool, productID string, quantity int) ([]models.CartItem, error) {
	if err := validateProductID(productID); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	if isAuthenticated {
		items, err := s.remote.UpdateItem(ctx, productID, quantity)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	items, err := s.guest.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
		}
	}
	return s.saveGuest(ctx, items)
}

func (s *cartService) RemoveFromCart(ctx context.Context, isAuthenticated bool, productID string) ([]models.CartItem, error) {
	if isAuthenticated {
		items, err := s.remote.RemoveItem(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	items, err := s.guest.Load(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	return s.saveGuest(ctx, kept)
}

func (s *cartService) ClearCart(ctx context.Context, isAuthenticated bool) ([]models.CartItem, error) {
	if isAuthenticated {
		if err := s.remote.Clear(ctx); err != nil {
			return nil, err
		}
		return []models.CartItem{}, nil
	}
	if err := s.guest.Delete(ctx); err != nil {
		return nil, err
	}
	return []models.CartItem{}, nil
}

func (s *cartService) MergeGuestCart(ctx context.Context, items []models.CartItem) ([]models.CartItem, error) {
	if len(items) == 0 {
		return []models.CartItem{}, nil
	}

	req := make([]models.MergeItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			s.log.Warn(ctx, "skipping malformed guest cart entry", "product_id", it.ProductID, "quantity", it.Quantity)
			continue
		}
		req = append(req, models.MergeItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, err := s.remote.Merge(ctx, req)
	if err != nil {
		s.log.Error(ctx, "guest cart merge failed, keeping guest cart", "error", err, "items", len(items))
		return items, nil
	}
	if res.Failed {
		s.log.Warn(ctx, "backend reported a partial merge", "message", res.Message)
	}

	if err := s.guest.Delete(ctx); err != nil {
		s.log.Error(ctx, "clearing merged guest cart", "error", err)
	}
	s.log.Info(ctx, "guest cart merged", "items", len(req))
	return nonNil(res.Items), nil
}

func (s *cartService) saveGuest(ctx context.Context, items []models.CartItem) ([]models.CartItem, error) {
	if err := s.guest.Save(ctx, items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func nonNil(items []models.CartItem) []models.CartItem {
	if items == nil {
		return []models.CartItem{}
	}
	return items
}
