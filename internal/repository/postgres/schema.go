package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates every table and index that does not exist yet.
func (db *DB) ApplySchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return errFailedApplySchema(err)
	}
	return nil
}

// Tables lists the tables ApplySchema is expected to create.
func Tables() []string {
	return []string{"buyers", "staff_members", "products", "product_images", "orders", "order_line_items", "audit_events"}
}
