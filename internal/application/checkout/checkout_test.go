package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdupermart/storefront/internal/domain/catalog"
	"github.com/superdupermart/storefront/internal/domain/identity"
	"github.com/superdupermart/storefront/internal/domain/shared"
	"github.com/superdupermart/storefront/internal/domain/trade"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"github.com/superdupermart/storefront/internal/store"
	"go.uber.org/zap"
)

type fakeAuth struct{}

func (fakeAuth) Login(context.Context, identity.LoginRequest) (identity.AuthResponse, error) {
	return identity.AuthResponse{Token: "tok", Username: "alice"}, nil
}

type fakeOrders struct {
	requests []trade.OrderRequest
	order    trade.Order
	err      error
}

func (f *fakeOrders) Place(_ context.Context, req trade.OrderRequest) (trade.Order, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return trade.Order{}, f.err
	}
	return f.order, nil
}

func fixture(t *testing.T, orders *fakeOrders) (*Service, *store.SessionStore, *store.CartStore) {
	t.Helper()
	logger := zap.NewNop()
	session := store.NewSessionStore(storage.NewMemoryStore(), fakeAuth{}, logger)
	cart := store.NewCartStore(storage.NewMemoryStore(), logger)
	return NewService(session, cart, orders, logger), session, cart
}

func login(t *testing.T, session *store.SessionStore) {
	t.Helper()
	_, err := session.Login(context.Background(), identity.LoginRequest{
		Username: "alice",
		Password: "secret",
	})
	require.NoError(t, err)
}

func product(id int64, price float64) catalog.Product {
	return catalog.Product{ID: id, RetailPrice: decimal.NewFromFloat(price)}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("submits the cart and clears it on success", func(t *testing.T) {
		orders := &fakeOrders{order: trade.Order{
			OrderID: 42,
			Status:  trade.OrderStatusPending,
		}}
		svc, session, cart := fixture(t, orders)
		login(t, session)
		cart.Add(product(1, 9.99), 2)
		cart.Add(product(2, 5.00), 1)

		shipping := &trade.Shipping{AddressID: 7}
		payment := &trade.Payment{PaymentMethodID: 3}
		order, err := svc.PlaceOrder(context.Background(), shipping, payment)
		require.NoError(t, err)
		assert.Equal(t, int64(42), order.OrderID)

		require.Len(t, orders.requests, 1)
		req := orders.requests[0]
		require.Len(t, req.Order, 2)
		assert.Equal(t, int64(1), req.Order[0].ProductID)
		assert.Equal(t, int64(2), req.Order[0].Quantity)
		assert.Equal(t, shipping, req.Shipping)
		assert.Equal(t, payment, req.Payment)

		assert.Empty(t, cart.Items(), "cart clears only after the backend confirms")
	})

	t.Run("requires an authenticated session", func(t *testing.T) {
		orders := &fakeOrders{}
		svc, _, cart := fixture(t, orders)
		cart.Add(product(1, 9.99), 1)

		_, err := svc.PlaceOrder(context.Background(), nil, nil)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		assert.Empty(t, orders.requests)
		assert.Len(t, cart.Items(), 1)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		orders := &fakeOrders{}
		svc, session, _ := fixture(t, orders)
		login(t, session)

		_, err := svc.PlaceOrder(context.Background(), nil, nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
		assert.Empty(t, orders.requests)
	})

	t.Run("keeps the cart when placement fails", func(t *testing.T) {
		orders := &fakeOrders{err: shared.ErrInsufficientStock}
		svc, session, cart := fixture(t, orders)
		login(t, session)
		cart.Add(product(1, 9.99), 3)

		_, err := svc.PlaceOrder(context.Background(), nil, nil)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(3), items[0].Quantity)
	})
}
