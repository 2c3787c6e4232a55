package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order as reported by the backend
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The backend arbitrates every transition; the client only uses this to
// decide which affordances (cancel, complete) are worth offering.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states the order can never leave
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderItem is a purchased line item. PurchasedPrice is the price snapshot
// taken at placement time, not the live catalog price.
type OrderItem struct {
	ProductID      int64           `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int64           `json:"quantity"`
	PurchasedPrice decimal.Decimal `json:"purchasedPrice"`
}

// Amount returns quantity times the purchased price snapshot
func (i OrderItem) Amount() decimal.Decimal {
	return i.PurchasedPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order is a reference entity owned by the backend. The client treats it
// as immutable once observed and only requests state transitions.
type Order struct {
	OrderID    int64       `json:"orderId"`
	DatePlaced time.Time   `json:"datePlaced"`
	Status     OrderStatus `json:"orderStatus"`
	Items      []OrderItem `json:"items"`
	Shipping   *Shipping   `json:"shipping,omitempty"`
	Payment    *Payment    `json:"payment,omitempty"`
}

// Total returns the sum of line amounts at their purchased-price snapshots
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// Shipping summarizes where an order ships, or that it is a pickup
type Shipping struct {
	Pickup    bool   `json:"pickup"`
	AddressID int64  `json:"addressId,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Payment summarizes the payment method used for an order
type Payment struct {
	PaymentMethodID int64  `json:"paymentMethodId,omitempty"`
	Summary         string `json:"summary,omitempty"`
}

// OrderItemRequest selects a product and quantity for placement
type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// OrderRequest is the payload submitted at checkout
type OrderRequest struct {
	Order    []OrderItemRequest `json:"order" validate:"required,min=1,dive"`
	Shipping *Shipping          `json:"shipping,omitempty"`
	Payment  *Payment           `json:"payment,omitempty"`
}
