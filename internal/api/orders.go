package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/superdupermart/storefront/internal/domain/shared"
	"github.com/superdupermart/storefront/internal/domain/trade"
)

// OrderService submits orders and requests state transitions. Orders are
// backend-owned; the client never mutates one directly.
type OrderService struct {
	client *Client
}

// Place submits an order and returns the backend's confirmation
func (s *OrderService) Place(ctx context.Context, req trade.OrderRequest) (trade.Order, error) {
	var order trade.Order
	if err := shared.Validate(req); err != nil {
		return order, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return trade.Order{}, err
	}
	return order, nil
}

// List returns the caller's order history. For admin sessions the backend
// returns all orders; page is 1-based.
func (s *OrderService) List(ctx context.Context, page int) ([]trade.Order, error) {
	path := "/orders/all"
	if page > 1 {
		path = fmt.Sprintf("/orders/all?page=%d", page)
	}
	var orders []trade.Order
	if err := s.client.doJSON(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns a single order by id
func (s *OrderService) Get(ctx context.Context, orderID int64) (trade.Order, error) {
	var order trade.Order
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return trade.Order{}, err
	}
	return order, nil
}

// Cancel requests cancellation of an order. The backend arbitrates
// whether the transition is allowed.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (string, error) {
	return s.client.doText(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", orderID), struct{}{})
}

// Complete requests completion of an order (admin only)
func (s *OrderService) Complete(ctx context.Context, orderID int64) (string, error) {
	return s.client.doText(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/complete", orderID), struct{}{})
}
