package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/domain/buyer"
	"storefront/internal/domain/order"
	"storefront/internal/domain/product"
	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type AccountService interface {
	RegisterBuyer(ctx context.Context, name, email, secret string) (*buyer.Buyer, error)
	AuthenticateBuyer(ctx context.Context, email, secret string) (*app.Session, error)
	AuthenticateStaff(ctx context.Context, email, secret string) (*app.Session, error)
}

// OrderHandler interfaces
type OrderService interface {
	CreateOrder(ctx context.Context, buyerID int64, address string, items []order.ItemRequest) (*order.Receipt, error)
	ListOrdersForBuyer(ctx context.Context, buyerID int64) ([]*order.Order, error)
	GetOrderForBuyer(ctx context.Context, orderID, buyerID int64) (*order.Detail, error)
	ListOrders(ctx context.Context, status *order.Status) ([]*order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*order.Detail, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	TransitionStatus(ctx context.Context, orderID int64, requested order.Status) (*order.Order, error)
}

// StaffHandler interfaces
type StaffService interface {
	CreateStaff(ctx context.Context, actor *rbac.AuthSubject, in app.NewStaffInput) (*staff.Member, error)
	DeleteStaff(ctx context.Context, actor *rbac.AuthSubject, targetID int64) error
	ListStaff(ctx context.Context, actor *rbac.AuthSubject) ([]*staff.Member, error)
}

// ProductHandler interfaces
type CatalogService interface {
	CreateProduct(ctx context.Context, in product.CreateProductInput) (*product.Product, error)
	UpdateProduct(ctx context.Context, id int64, in product.UpdateProductInput) (*product.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter product.ListFilter) ([]*product.Product, error)
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
	UploadImages(ctx context.Context, productID int64, uploads []app.ImageUpload) ([]*product.Image, error)
}

// AuditRecorder is satisfied by *audit.Logger.
type AuditRecorder interface {
	Record(c echo.Context, resourceType audit.ResourceType, resourceID *int64, action audit.Action, status audit.Status, metadata map[string]any)
	RecordError(c echo.Context, resourceType audit.ResourceType, resourceID *int64, action audit.Action, err error)
}

// AuditHandler interfaces
type AuditQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}
