package postgres

import (
	"context"
	"fmt"

	"storefront/internal/domain/product"
	apperrors "storefront/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const (
	productColumns = `id, name, description, price_cents, available, created_at, updated_at`
	imageColumns   = `id, product_id, object_key, url, created_at`
)

func scanProduct(row pgx.Row) (*product.Product, error) {
	p := &product.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Available,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func scanImage(row pgx.Row) (*product.Image, error) {
	img := &product.Image{}
	err := row.Scan(
		&img.ID,
		&img.ProductID,
		&img.ObjectKey,
		&img.URL,
		&img.CreatedAt,
	)
	return img, err
}

// getProduct reads a single product row through q, which may be a
// transaction.
func getProduct(ctx context.Context, q querier, id int64) (*product.Product, error) {
	p, err := scanProduct(q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProductNotFound)
		}
		return nil, errFailedGetProduct(err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, input product.CreateProductInput) (*product.Product, error) {
	query := `
		INSERT INTO products (name, description, price_cents, available)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.Pool.QueryRow(ctx, query, input.Name, input.Description, int64(input.Price), input.Available))
	if err != nil {
		return nil, errFailedCreateProduct(err)
	}
	p.Images = []*product.Image{}
	return p, nil
}

// GetByID returns the product with its images.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := getProduct(ctx, r.db.Pool, id)
	if err != nil {
		return nil, err
	}

	images, err := r.imagesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Images = images[id]
	if p.Images == nil {
		p.Images = []*product.Image{}
	}

	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argCount := 0

	if filter.AvailableOnly {
		query += " AND available"
	}

	if filter.Search != "" {
		argCount++
		query += fmt.Sprintf(" AND name ILIKE $%d ESCAPE '\\'", argCount)
		args = append(args, "%"+escapeLikePattern(filter.Search)+"%")
	}

	query += " ORDER BY id"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListProducts(err)
	}
	defer rows.Close()

	products := []*product.Product{}
	ids := []int64{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errFailedScanProduct(err)
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errFailedListProducts(err)
	}

	if len(ids) == 0 {
		return products, nil
	}

	images, err := r.imagesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		p.Images = images[p.ID]
		if p.Images == nil {
			p.Images = []*product.Image{}
		}
	}

	return products, nil
}

func (r *ProductRepository) imagesFor(ctx context.Context, productIDs []int64) (map[int64][]*product.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, errFailedListImages(err)
	}
	defer rows.Close()

	byProduct := make(map[int64][]*product.Image, len(productIDs))
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, errFailedScanImage(err)
		}
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, errFailedListImages(err)
	}

	return byProduct, nil
}

// Update applies only the fields present in input.
func (r *ProductRepository) Update(ctx context.Context, id int64, input product.UpdateProductInput) (*product.Product, error) {
	set := NewUpdateSet().Touch("updated_at")
	if input.Name != nil {
		set.Set("name", *input.Name)
	}
	if input.Description != nil {
		set.Set("description", *input.Description)
	}
	if input.Price != nil {
		set.Set("price_cents", int64(*input.Price))
	}
	if input.Available != nil {
		set.Set("available", *input.Available)
	}

	if set.Len() == 0 {
		return nil, apperrors.InvalidInput(errEmptyUpdate)
	}

	query, args, err := set.Statement("products", "id", id,
		"id", "name", "description", "price_cents", "available", "created_at", "updated_at")
	if err != nil {
		return nil, errFailedUpdateProduct(err)
	}

	if _, err := scanProduct(r.db.Pool.QueryRow(ctx, query, args...)); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProductNotFound)
		}
		return nil, errFailedUpdateProduct(err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the product and its image rows and returns the object keys
// of the removed images. Products referenced by orders cannot be deleted.
func (r *ProductRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var keys []string

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT object_key FROM product_images WHERE product_id = $1`, id)
		if err != nil {
			return errFailedListImages(err)
		}
		keys, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return errFailedScanImage(err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.Conflict(errProductReferenced)
			}
			return errFailedDeleteProduct(err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NotFound(errProductNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// AddImages inserts all image rows in one transaction.
func (r *ProductRepository) AddImages(ctx context.Context, inputs []product.CreateImageInput) ([]*product.Image, error) {
	images := make([]*product.Image, 0, len(inputs))

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO product_images (product_id, object_key, url)
			VALUES ($1, $2, $3)
			RETURNING ` + imageColumns

		for _, in := range inputs {
			img, err := scanImage(tx.QueryRow(ctx, query, in.ProductID, in.ObjectKey, in.URL))
			if err != nil {
				switch {
				case isForeignKeyViolation(err):
					return apperrors.NotFound(errProductNotFound)
				case isUniqueViolation(err):
					return apperrors.Conflict(errImageKeyExists)
				}
				return errFailedCreateImage(err)
			}
			images = append(images, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return images, nil
}
