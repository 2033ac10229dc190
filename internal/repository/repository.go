package repository

import (
	"context"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/order"
	"storefront/internal/domain/product"
	"storefront/internal/domain/staff"
)

// BuyerRepository defines buyer data access operations
type BuyerRepository interface {
	Create(ctx context.Context, input buyer.CreateBuyerInput) (*buyer.Buyer, error)
	GetByID(ctx context.Context, id int64) (*buyer.Buyer, error)
	GetByEmail(ctx context.Context, email string) (*buyer.Buyer, error)
}

// StaffRepository defines staff account data access operations
type StaffRepository interface {
	Create(ctx context.Context, input staff.CreateMemberInput) (*staff.Member, error)
	GetByID(ctx context.Context, id int64) (*staff.Member, error)
	GetByEmail(ctx context.Context, email string) (*staff.Member, error)
	List(ctx context.Context) ([]*staff.Member, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines catalog data access operations
type ProductRepository interface {
	Create(ctx context.Context, input product.CreateProductInput) (*product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error)
	Update(ctx context.Context, id int64, input product.UpdateProductInput) (*product.Product, error)
	Delete(ctx context.Context, id int64) ([]string, error)
	AddImages(ctx context.Context, inputs []product.CreateImageInput) ([]*product.Image, error)
}

// OrderRepository defines order reads and deletion outside of checkout
type OrderRepository interface {
	List(ctx context.Context, filter order.ListOrdersFilter) ([]*order.Order, error)
	GetDetail(ctx context.Context, id int64) (*order.Detail, error)
	Delete(ctx context.Context, id int64) error
}

// OrderTx is the set of operations available inside one order transaction.
// GetProduct is the catalog lookup used to snapshot prices at checkout.
type OrderTx interface {
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
	InsertOrder(ctx context.Context, input order.CreateOrderInput) (*order.Order, error)
	InsertLineItem(ctx context.Context, input order.CreateLineItemInput) (*order.LineItem, error)
	GetOrderForUpdate(ctx context.Context, id int64) (*order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
}

// OrderUnitOfWork runs fn in a single transaction. Nothing fn wrote is
// visible to others unless fn returns nil.
type OrderUnitOfWork interface {
	InTx(ctx context.Context, fn func(tx OrderTx) error) error
}
