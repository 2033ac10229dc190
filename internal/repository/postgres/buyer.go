package postgres

import (
	"context"

	"storefront/internal/domain/buyer"
	apperrors "storefront/pkg/errors"
)

type BuyerRepository struct {
	db *DB
}

func NewBuyerRepository(db *DB) *BuyerRepository {
	return &BuyerRepository{db: db}
}

const buyerColumns = `id, name, email, password_hash, created_at`

func (r *BuyerRepository) Create(ctx context.Context, input buyer.CreateBuyerInput) (*buyer.Buyer, error) {
	query := `
		INSERT INTO buyers (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + buyerColumns

	b := &buyer.Buyer{}
	err := r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.PasswordHash).Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.PasswordHash,
		&b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errBuyerEmailExists)
		}
		return nil, errFailedCreateBuyer(err)
	}

	return b, nil
}

func (r *BuyerRepository) GetByID(ctx context.Context, id int64) (*buyer.Buyer, error) {
	return r.getOne(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, id)
}

func (r *BuyerRepository) GetByEmail(ctx context.Context, email string) (*buyer.Buyer, error) {
	return r.getOne(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE email = $1`, email)
}

func (r *BuyerRepository) getOne(ctx context.Context, query string, arg any) (*buyer.Buyer, error) {
	b := &buyer.Buyer{}
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.PasswordHash,
		&b.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errBuyerNotFound)
		}
		return nil, errFailedGetBuyer(err)
	}

	return b, nil
}
