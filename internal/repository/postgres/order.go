package postgres

import (
	"context"
	"fmt"

	"storefront/internal/domain/order"
	"storefront/internal/domain/product"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, buyer_id, total_cents, address, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	o := &order.Order{}
	err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.Total,
		&o.Address,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// InTx implements repository.OrderUnitOfWork on top of DB.WithTx.
func (r *OrderRepository) InTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(&orderTx{tx: tx})
	})
}

// List returns orders newest first.
func (r *OrderRepository) List(ctx context.Context, filter order.ListOrdersFilter) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	argCount := 0

	if filter.BuyerID != nil {
		argCount++
		query += fmt.Sprintf(" AND buyer_id = $%d", argCount)
		args = append(args, *filter.BuyerID)
	}

	if filter.Status != nil {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListOrders(err)
	}
	defer rows.Close()

	orders := []*order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errFailedScanOrder(err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListOrders(err)
	}

	return orders, nil
}

// GetDetail returns the order and its line items with product names.
func (r *OrderRepository) GetDetail(ctx context.Context, id int64) (*order.Detail, error) {
	o, err := scanOrder(r.db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errOrderNotFound)
		}
		return nil, errFailedGetOrder(err)
	}

	query := `
		SELECT li.id, li.order_id, li.product_id, p.name, li.quantity, li.unit_price_cents
		FROM order_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.order_id = $1
		ORDER BY li.id
	`

	rows, err := r.db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, errFailedListLineItems(err)
	}
	defer rows.Close()

	detail := &order.Detail{Order: *o, Items: []*order.LineItem{}}
	for rows.Next() {
		li := &order.LineItem{}
		if err := rows.Scan(
			&li.ID,
			&li.OrderID,
			&li.ProductID,
			&li.ProductName,
			&li.Quantity,
			&li.UnitPrice,
		); err != nil {
			return nil, errFailedScanLineItem(err)
		}
		detail.Items = append(detail.Items, li)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListLineItems(err)
	}

	return detail, nil
}

// Delete removes the line items and then the order header in one
// transaction.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_line_items WHERE order_id = $1`, id); err != nil {
			return errFailedDeleteLineItems(err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return errFailedDeleteOrder(err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NotFound(errOrderNotFound)
		}
		return nil
	})
}

type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return getProduct(ctx, t.tx, id)
}

func (t *orderTx) InsertOrder(ctx context.Context, input order.CreateOrderInput) (*order.Order, error) {
	query := `
		INSERT INTO orders (buyer_id, total_cents, address, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + orderColumns

	o, err := scanOrder(t.tx.QueryRow(ctx, query, input.BuyerID, int64(input.Total), input.Address, string(input.Status)))
	if err != nil {
		return nil, errFailedCreateOrder(err)
	}
	return o, nil
}

func (t *orderTx) InsertLineItem(ctx context.Context, input order.CreateLineItemInput) (*order.LineItem, error) {
	query := `
		INSERT INTO order_line_items (order_id, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, product_id, quantity, unit_price_cents
	`

	li := &order.LineItem{}
	err := t.tx.QueryRow(ctx, query, input.OrderID, input.ProductID, input.Quantity, int64(input.UnitPrice)).Scan(
		&li.ID,
		&li.OrderID,
		&li.ProductID,
		&li.Quantity,
		&li.UnitPrice,
	)
	if err != nil {
		return nil, errFailedCreateLineItem(err)
	}
	return li, nil
}

// GetOrderForUpdate locks the order row until the transaction ends.
func (t *orderTx) GetOrderForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	o, err := scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errOrderNotFound)
		}
		return nil, errFailedGetOrder(err)
	}
	return o, nil
}

func (t *orderTx) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	query, args, err := NewUpdateSet().
		Set("status", string(status)).
		Touch("updated_at").
		Statement("orders", "id", id, "id", "buyer_id", "total_cents", "address", "status", "created_at", "updated_at")
	if err != nil {
		return nil, errFailedUpdateOrder(err)
	}

	o, err := scanOrder(t.tx.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errOrderNotFound)
		}
		return nil, errFailedUpdateOrder(err)
	}
	return o, nil
}
