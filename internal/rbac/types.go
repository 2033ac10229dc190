package rbac

// Kind separates the two principal populations. Only staff carry a Role.
type Kind string

const (
	KindBuyer Kind = "buyer"
	KindStaff Kind = "staff"
)

// Valid reports whether k is one of the known principal kinds.
func (k Kind) Valid() bool {
	return k == KindBuyer || k == KindStaff
}

// Role represents a staff member's tier (hierarchical)
type Role string

// AuthSubject represents the entity performing an action
type AuthSubject struct {
	ID   int64
	Kind Kind
	Role Role
}

// RoleDefinition defines a role and its privilege level
type RoleDefinition struct {
	Name  Role
	Level int
}
