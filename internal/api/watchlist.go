package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/superdupermart/storefront/internal/domain/catalog"
)

// WatchlistService manages the user's product watchlist
type WatchlistService struct {
	client *Client
}

// Get returns the current user's watchlist
func (s *WatchlistService) Get(ctx context.Context) ([]catalog.WatchlistItem, error) {
	var items []catalog.WatchlistItem
	if err := s.client.doJSON(ctx, http.MethodGet, "/user/watchlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add puts a product on the watchlist
func (s *WatchlistService) Add(ctx context.Context, productID int64) (string, error) {
	return s.client.doText(ctx, http.MethodPost, fmt.Sprintf("/user/watchlist/%d", productID), struct{}{})
}

// Remove takes a product off the watchlist
func (s *WatchlistService) Remove(ctx context.Context, productID int64) (string, error) {
	return s.client.doText(ctx, http.MethodDelete, fmt.Sprintf("/user/watchlist/%d", productID), nil)
}
