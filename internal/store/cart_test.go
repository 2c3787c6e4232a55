package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdupermart/storefront/internal/domain/catalog"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func newTestProduct(id int64, name string, price float64) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        name,
		RetailPrice: decimal.NewFromFloat(price),
	}
}

func TestCartStoreAdd(t *testing.T) {
	t.Run("inserts a new line item", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].Quantity)
	})

	t.Run("accumulates quantity for the same product", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)
		cart.Add(newTestProduct(1, "Widget", 10), 3)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(5), items[0].Quantity)
	})

	t.Run("treats quantity below one as one", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 0)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].Quantity)
	})

	t.Run("keeps the add-time price snapshot", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 1)

		// A later catalog price change must not affect the stored line.
		cart.Add(newTestProduct(2, "Gadget", 99), 1)
		items := cart.Items()
		assert.True(t, items[0].Product.RetailPrice.Equal(decimal.NewFromInt(10)))
	})
}

func TestCartStoreSetQuantity(t *testing.T) {
	t.Run("overwrites the quantity", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)
		cart.SetQuantity(1, 7)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(7), items[0].Quantity)
	})

	t.Run("zero removes the item", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)
		cart.SetQuantity(1, 0)

		assert.Empty(t, cart.Items())
		assert.Equal(t, int64(0), cart.Count())
	})

	t.Run("negative removes the item", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)
		cart.SetQuantity(1, -5)

		assert.Empty(t, cart.Items())
		assert.Equal(t, int64(0), cart.Count())
	})

	t.Run("unknown product id is a no-op", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)
		cart.SetQuantity(42, 3)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].Quantity)
	})
}

func TestCartStoreRemove(t *testing.T) {
	t.Run("removes an existing item", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 1)
		cart.Remove(1)

		assert.Empty(t, cart.Items())
	})

	t.Run("removing an absent id leaves the cart unchanged", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "Widget", 10), 2)

		published := 0
		cart.Subscribe(func([]CartItem) { published++ })
		cart.Remove(42)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].Quantity)
		assert.Zero(t, published, "a no-op removal must not republish")
	})
}

func TestCartStoreDerived(t *testing.T) {
	t.Run("total and count", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		cart.Add(newTestProduct(1, "A", 10), 2)
		cart.Add(newTestProduct(2, "B", 5), 3)

		assert.True(t, cart.Total().Equal(decimal.NewFromInt(35)), "total = %s", cart.Total())
		assert.Equal(t, int64(5), cart.Count())
	})

	t.Run("empty cart", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		assert.True(t, cart.Total().IsZero())
		assert.Equal(t, int64(0), cart.Count())
	})
}

func TestCartStoreClear(t *testing.T) {
	cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
	cart.Add(newTestProduct(1, "A", 10), 2)
	cart.Clear()

	assert.Empty(t, cart.Items())
	assert.Equal(t, int64(0), cart.Count())
}

func TestCartStorePersistence(t *testing.T) {
	t.Run("survives a restart", func(t *testing.T) {
		st := storage.NewMemoryStore()

		first := NewCartStore(st, zap.NewNop())
		first.Add(newTestProduct(1, "Widget", 10), 2)
		first.Add(newTestProduct(2, "Gadget", 5), 1)

		second := NewCartStore(st, zap.NewNop())
		require.Len(t, second.Items(), 2)
		assert.Equal(t, int64(3), second.Count())
		assert.True(t, second.Total().Equal(decimal.NewFromInt(25)))
	})

	t.Run("corrupt persisted cart rehydrates as empty", func(t *testing.T) {
		st := storage.NewMemoryStore()
		require.NoError(t, st.Set(context.Background(), storage.KeyCart, []byte("{not json")))

		cart := NewCartStore(st, zap.NewNop())
		assert.Empty(t, cart.Items())
	})

	t.Run("absent persisted cart rehydrates as empty", func(t *testing.T) {
		cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())
		assert.Empty(t, cart.Items())
	})
}

func TestCartStorePublishes(t *testing.T) {
	cart := NewCartStore(storage.NewMemoryStore(), zap.NewNop())

	var snapshots [][]CartItem
	unsubscribe := cart.Subscribe(func(items []CartItem) {
		snapshots = append(snapshots, items)
	})
	defer unsubscribe()

	cart.Add(newTestProduct(1, "Widget", 10), 1)
	cart.SetQuantity(1, 4)
	cart.Remove(1)

	require.Len(t, snapshots, 3)
	assert.Equal(t, int64(1), snapshots[0][0].Quantity)
	assert.Equal(t, int64(4), snapshots[1][0].Quantity)
	assert.Empty(t, snapshots[2])
}
