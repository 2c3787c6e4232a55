package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/superdupermart/storefront/internal/domain/catalog"
	"github.com/superdupermart/storefront/internal/domain/shared"
)

// CatalogService fetches products and product statistics
type CatalogService struct {
	client *Client
}

// List returns the full product listing visible to the current session
func (s *CatalogService) List(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := s.client.doJSON(ctx, http.MethodGet, "/products/all", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns a single product by id
func (s *CatalogService) Get(ctx context.Context, id int64) (catalog.Product, error) {
	var product catalog.Product
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// Search returns products matching the query and optional price bounds
func (s *CatalogService) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Product, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.MinPrice != nil {
		params.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", q.MaxPrice.String())
	}
	path := "/products/search"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []catalog.Product
	if err := s.client.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create adds a product to the catalog (admin only)
func (s *CatalogService) Create(ctx context.Context, req catalog.ProductRequest) (catalog.Product, error) {
	var product catalog.Product
	if err := shared.Validate(req); err != nil {
		return product, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/products", req, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// Update patches a product (admin only)
func (s *CatalogService) Update(ctx context.Context, id int64, req catalog.ProductRequest) (catalog.Product, error) {
	var product catalog.Product
	if err := shared.Validate(req); err != nil {
		return product, err
	}
	if err := s.client.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/products/%d", id), req, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// Delete removes a product from the catalog (admin only)
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.client.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// UploadImage attaches an image to a product (admin only)
func (s *CatalogService) UploadImage(ctx context.Context, id int64, filename string, image io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("failed to build image upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize image upload: %w", err)
	}

	_, err = s.client.doRaw(ctx, http.MethodPost, fmt.Sprintf("/products/%d/image", id), &buf, writer.FormDataContentType())
	return err
}

// MostPopular returns the top n products by units sold (admin only)
func (s *CatalogService) MostPopular(ctx context.Context, n int) ([]catalog.ProductStat, error) {
	var stats []catalog.ProductStat
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/popular/%d", n), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MostProfitable returns the top n products by profit (admin only)
func (s *CatalogService) MostProfitable(ctx context.Context, n int) ([]catalog.ProductStat, error) {
	var stats []catalog.ProductStat
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/profit/%d", n), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MostRecent returns the names of the current user's n most recently
// purchased products
func (s *CatalogService) MostRecent(ctx context.Context, n int) ([]string, error) {
	var names []string
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/recent/%d", n), nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// MostFrequent returns the names of the current user's n most frequently
// purchased products
func (s *CatalogService) MostFrequent(ctx context.Context, n int) ([]string, error) {
	var names []string
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/frequent/%d", n), nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// AdminStats aggregates the back-office dashboard figures from the
// individual stat endpoints
func (s *CatalogService) AdminStats(ctx context.Context, n int) (catalog.AdminStats, error) {
	popular, err := s.MostPopular(ctx, n)
	if err != nil {
		return catalog.AdminStats{}, err
	}
	profitable, err := s.MostProfitable(ctx, n)
	if err != nil {
		return catalog.AdminStats{}, err
	}
	return catalog.AdminStats{MostPopular: popular, MostProfitable: profitable}, nil
}

// UserStats aggregates the per-user dashboard figures
func (s *CatalogService) UserStats(ctx context.Context, n int) (catalog.UserStats, error) {
	recent, err := s.MostRecent(ctx, n)
	if err != nil {
		return catalog.UserStats{}, err
	}
	frequent, err := s.MostFrequent(ctx, n)
	if err != nil {
		return catalog.UserStats{}, err
	}
	return catalog.UserStats{MostRecent: recent, MostFrequent: frequent}, nil
}
