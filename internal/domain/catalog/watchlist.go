package catalog

import "github.com/shopspring/decimal"

// WatchlistItem is a product a user has flagged for later. The backend
// denormalizes the product fields so the list renders without extra
// catalog fetches.
type WatchlistItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Description string          `json:"description,omitempty"`
	RetailPrice decimal.Decimal `json:"retailPrice"`
}

// Product converts the watchlist entry back into a catalog product
// suitable for adding to the cart.
func (w WatchlistItem) Product() Product {
	return Product{
		ID:          w.ProductID,
		Name:        w.ProductName,
		Description: w.Description,
		RetailPrice: w.RetailPrice,
	}
}
