package catalog

import (
	"github.com/shopspring/decimal"
)

// Product represents a product as exposed to the storefront.
// WholesalePrice and StockQuantity are only populated for admin sessions;
// for regular users the backend omits them.
type Product struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	RetailPrice      decimal.Decimal  `json:"retailPrice"`
	WholesalePrice   *decimal.Decimal `json:"wholesalePrice,omitempty"`
	StockQuantity    *int64           `json:"quantity,omitempty"`
	Image            string           `json:"image,omitempty"`
	ImageContentType string           `json:"imageContentType,omitempty"`
}

// ProductRequest carries the fields for creating or updating a product
type ProductRequest struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	Quantity       int64           `json:"quantity" validate:"gte=0"`
}

// SearchQuery narrows a catalog search. Zero values mean "no constraint".
type SearchQuery struct {
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
