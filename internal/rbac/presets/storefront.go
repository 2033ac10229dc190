package presets

import "storefront/internal/rbac"

const (
	RoleOwner    rbac.Role = "owner"
	RoleManager  rbac.Role = "manager"
	RoleEmployee rbac.Role = "employee"
)

// Storefront returns the staff hierarchy:
//
//	owner    (3): everything, including removing staff and creating owners
//	manager  (2): products, order deletion, hiring employees
//	employee (1): order handling
func Storefront() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleOwner, Level: 3},
			{Name: RoleManager, Level: 2},
			{Name: RoleEmployee, Level: 1},
		},
	}
}
