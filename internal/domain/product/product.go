package product

import (
	"time"

	"storefront/internal/domain/money"
)

type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Available   bool        `json:"available"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Images      []*Image    `json:"images,omitempty"`
}

type Image struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	ObjectKey string    `json:"-"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       money.Cents
	Available   bool
}

// UpdateProductInput carries only the fields to change; nil means untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *money.Cents
	Available   *bool
}

func (in UpdateProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil && in.Available == nil
}

type CreateImageInput struct {
	ProductID int64
	ObjectKey string
	URL       string
}

// ListFilter narrows catalog listings. Search matches the product name.
type ListFilter struct {
	AvailableOnly bool
	Search        string
	Limit         int
	Offset        int
}
