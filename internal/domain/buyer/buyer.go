package buyer

import "time"

type Buyer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateBuyerInput struct {
	Name         string
	Email        string
	PasswordHash string
}
