package app

import (
	"storefront/internal/repository"
)

// Dependencies are the collaborators the services are built from.
type Dependencies struct {
	Buyers   repository.BuyerRepository
	Staff    repository.StaffRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	OrderUoW repository.OrderUnitOfWork

	Hasher  PasswordHasher
	Tokens  TokenIssuer
	Roles   RoleAuthority
	Revoker TokenRevoker
	Images  ImageStore

	Catalog CatalogOptions
}

// Services groups the application services exposed over HTTP.
type Services struct {
	Accounts *Accounts
	Orders   *Orders
	Staff    *StaffManagement
	Catalog  *Catalog
}

func NewServices(deps Dependencies) *Services {
	return &Services{
		Accounts: NewAccounts(deps.Buyers, deps.Staff, deps.Hasher, deps.Tokens),
		Orders:   NewOrders(deps.OrderUoW, deps.Orders),
		Staff:    NewStaffManagement(deps.Staff, deps.Hasher, deps.Roles, deps.Revoker),
		Catalog:  NewCatalog(deps.Products, deps.Images, deps.Catalog),
	}
}
