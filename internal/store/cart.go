package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/superdupermart/storefront/internal/domain/catalog"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// CartItem is one line of the cart: a product snapshot plus the selected
// quantity. The price snapshot taken at add-time is what totals use, not
// a live re-fetch.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int64           `json:"quantity"`
}

// CartStore holds the visitor's selections. It is entirely local: every
// operation is synchronous, there is no remote leg and therefore nothing
// to roll back. The cart is persisted after every mutation.
type CartStore struct {
	mu      sync.Mutex
	storage storage.Store
	logger  *zap.Logger
	bc      *broadcaster[[]CartItem]

	items []CartItem
}

// NewCartStore rehydrates the persisted cart. A corrupt or absent
// persisted value yields an empty cart, never an error.
func NewCartStore(st storage.Store, logger *zap.Logger) *CartStore {
	s := &CartStore{
		storage: st,
		logger:  logger,
		bc:      newBroadcaster[[]CartItem](logger),
	}

	data, err := st.Get(context.Background(), storage.KeyCart)
	if err == nil {
		var items []CartItem
		if jsonErr := json.Unmarshal(data, &items); jsonErr == nil {
			for _, item := range items {
				if item.Quantity >= 1 {
					s.items = append(s.items, item)
				}
			}
		} else {
			logger.Warn("discarding unreadable persisted cart")
		}
	}

	return s
}

// Subscribe registers a listener for cart transitions
func (s *CartStore) Subscribe(fn Listener[[]CartItem]) Unsubscribe {
	return s.bc.subscribe(fn)
}

// Add inserts a line item for the product, or increments the quantity of
// an existing one. Quantities below one count as one.
func (s *CartStore) Add(product catalog.Product, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, CartItem{Product: product, Quantity: quantity})
	}
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)
}

// SetQuantity overwrites the quantity of a line item. A quantity of zero
// or less removes the item. Unknown product ids are ignored.
func (s *CartStore) SetQuantity(productID, quantity int64) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)
}

// Remove deletes the line item for the product id. Removing an id that
// is not in the cart is a no-op, not an error.
func (s *CartStore) Remove(productID int64) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.Product.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.items = kept
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)
}

// Clear empties the cart
func (s *CartStore) Clear() {
	s.mu.Lock()
	s.items = nil
	snapshot := s.persistLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)
}

// Items returns a copy of the current line items
func (s *CartStore) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total returns the sum of quantity times add-time retail price across
// all line items
func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Product.RetailPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

// Count returns the total number of items (sum of quantities)
func (s *CartStore) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// persistLocked writes the cart to storage and returns a snapshot.
// A storage failure is logged but does not fail the mutation: the cart
// is local state first, persistence is best effort.
func (s *CartStore) persistLocked() []CartItem {
	snapshot := s.snapshotLocked()
	data, err := json.Marshal(snapshot)
	if err == nil {
		err = s.storage.Set(context.Background(), storage.KeyCart, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
	return snapshot
}

func (s *CartStore) snapshotLocked() []CartItem {
	snapshot := make([]CartItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}
