package order

import (
	"time"

	"storefront/internal/domain/money"
)

type Order struct {
	ID        int64       `json:"id"`
	BuyerID   int64       `json:"buyer_id"`
	Total     money.Cents `json:"total"`
	Address   string      `json:"address"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// LineItem holds the unit price captured when the order was placed. It is
// never recomputed from the current product price.
type LineItem struct {
	ID          int64       `json:"id"`
	OrderID     int64       `json:"order_id"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Cents `json:"unit_price"`
}

// Detail is an order together with its line items.
type Detail struct {
	Order
	Items []*LineItem `json:"items"`
}

// ItemRequest is one requested line of a new order. Prices are never taken
// from the client.
type ItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	BuyerID int64
	Total   money.Cents
	Address string
	Status  Status
}

type CreateLineItemInput struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice money.Cents
}

type ListOrdersFilter struct {
	BuyerID *int64
	Status  *Status
}

// Receipt is returned to the buyer after a successful checkout.
type Receipt struct {
	OrderID int64       `json:"order_id"`
	Total   money.Cents `json:"total"`
	Status  Status      `json:"status"`
}
