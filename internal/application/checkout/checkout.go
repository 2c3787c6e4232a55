// Package checkout orchestrates the cart, session and order fetcher for
// order placement.
package checkout

import (
	"context"

	"github.com/superdupermart/storefront/internal/domain/shared"
	"github.com/superdupermart/storefront/internal/domain/trade"
	"github.com/superdupermart/storefront/internal/infrastructure/telemetry"
	"github.com/superdupermart/storefront/internal/store"
	"go.uber.org/zap"
)

// OrderAPI is the slice of the backend client checkout needs
type OrderAPI interface {
	Place(ctx context.Context, req trade.OrderRequest) (trade.Order, error)
}

// Service places orders from the current cart. The cart is only cleared
// once the backend confirms the order; any failure leaves it untouched.
type Service struct {
	session *store.SessionStore
	cart    *store.CartStore
	orders  OrderAPI
	logger  *zap.Logger
}

// NewService wires a checkout service
func NewService(session *store.SessionStore, cart *store.CartStore, orders OrderAPI, logger *zap.Logger) *Service {
	return &Service{
		session: session,
		cart:    cart,
		orders:  orders,
		logger:  logger,
	}
}

// PlaceOrder submits the cart as an order with the chosen shipping and
// payment selections. Requires an authenticated session and a non-empty
// cart.
func (s *Service) PlaceOrder(ctx context.Context, shipping *trade.Shipping, payment *trade.Payment) (trade.Order, error) {
	ctx, span := telemetry.StartStoreSpan(ctx, "checkout", "place_order")
	defer span.End()

	if !s.session.IsAuthenticated() {
		telemetry.RecordError(span, shared.ErrUnauthorized)
		return trade.Order{}, shared.ErrUnauthorized
	}

	items := s.cart.Items()
	if len(items) == 0 {
		err := shared.NewDomainError("EMPTY_CART", "Cannot place an order with an empty cart")
		telemetry.RecordError(span, err)
		return trade.Order{}, err
	}

	req := trade.OrderRequest{
		Order:    make([]trade.OrderItemRequest, 0, len(items)),
		Shipping: shipping,
		Payment:  payment,
	}
	for _, item := range items {
		req.Order = append(req.Order, trade.OrderItemRequest{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.orders.Place(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return trade.Order{}, err
	}

	s.cart.Clear()
	s.logger.Info("order placed",
		zap.Int64("order_id", order.OrderID),
		zap.Int("line_items", len(order.Items)),
	)
	return order, nil
}
