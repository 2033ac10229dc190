package staff

import (
	"time"

	"storefront/internal/rbac"
)

// Member is a staff account. Role is fixed at creation.
type Member struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         rbac.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateMemberInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         rbac.Role
}
