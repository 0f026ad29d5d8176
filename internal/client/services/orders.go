package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
	"github.com/dmitrijs2005/watchstore/internal/logging"
)

// OrderRemote is the orders backend. api.OrderAPI implements it.
type OrderRemote interface {
	List(ctx context.Context, page, size int) (*models.Page[models.Order], error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, req models.CheckoutRequest, idempotencyKey string) (*models.Order, error)
}

type OrderService interface {
	// Checkout places an order for the current remote cart.
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Order, error)
	ListOrders(ctx context.Context, page, size int) (*models.Page[models.Order], error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

type orderService struct {
	orders OrderRemote
	cart   RemoteCart
	newKey func() string
	log    logging.Logger
}

func NewOrderService(orders OrderRemote, cart RemoteCart, log logging.Logger) OrderService {
	if log == nil {
		log = logging.NewNop()
	}
	return &orderService{orders: orders, cart: cart, newKey: uuid.NewString, log: log.With("service", "orders")}
}

func (s *orderService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	items, err := s.cart.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	key := s.newKey()
	o, err := s.orders.Create(ctx, req, key)
	if err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}
	s.log.Info(ctx, "order placed", "order_id", o.ID, "items", len(items), "idempotency_key", key)
	return o, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, size int) (*models.Page[models.Order], error) {
	if page < 0 {
		page = 0
	}
	return s.orders.List(ctx, page, size)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", common.ErrorValidation)
	}
	return s.orders.Get(ctx, id)
}
