package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errBuyerNotFound     = "buyer not found"
	errStaffNotFound     = "staff member not found"
	errProductNotFound   = "product not found"
	errOrderNotFound     = "order not found"
	errBuyerEmailExists  = "a buyer with this email already exists"
	errStaffEmailExists  = "a staff member with this email already exists"
	errProductReferenced = "product is referenced by existing orders"
	errImageKeyExists    = "image object key already exists"
	errEmptyUpdate       = "no fields to update"
	errInvalidColumnFmt  = "invalid column name %q"
	errStatementNoKeyFmt = "update of %s requires a key column"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedStartTransactionFmt     = "failed to start transaction: %w"
	errFailedCommitTransactionFmt    = "failed to commit transaction: %w"
	errFailedApplySchemaFmt          = "failed to apply schema: %w"

	errFailedCreateBuyerFmt = "failed to create buyer: %w"
	errFailedGetBuyerFmt    = "failed to get buyer: %w"

	errFailedCreateStaffFmt = "failed to create staff member: %w"
	errFailedGetStaffFmt    = "failed to get staff member: %w"
	errFailedListStaffFmt   = "failed to list staff: %w"
	errFailedScanStaffFmt   = "failed to scan staff member: %w"
	errFailedDeleteStaffFmt = "failed to delete staff member: %w"
	errFailedCountStaffFmt  = "failed to count staff: %w"

	errFailedCreateProductFmt = "failed to create product: %w"
	errFailedGetProductFmt    = "failed to get product: %w"
	errFailedListProductsFmt  = "failed to list products: %w"
	errFailedScanProductFmt   = "failed to scan product: %w"
	errFailedUpdateProductFmt = "failed to update product: %w"
	errFailedDeleteProductFmt = "failed to delete product: %w"
	errFailedCreateImageFmt   = "failed to create product image: %w"
	errFailedListImagesFmt    = "failed to list product images: %w"
	errFailedScanImageFmt     = "failed to scan product image: %w"

	errFailedCreateOrderFmt     = "failed to create order: %w"
	errFailedCreateLineItemFmt  = "failed to create line item: %w"
	errFailedGetOrderFmt        = "failed to get order: %w"
	errFailedListOrdersFmt      = "failed to list orders: %w"
	errFailedScanOrderFmt       = "failed to scan order: %w"
	errFailedListLineItemsFmt   = "failed to list line items: %w"
	errFailedScanLineItemFmt    = "failed to scan line item: %w"
	errFailedUpdateOrderFmt     = "failed to update order status: %w"
	errFailedDeleteOrderFmt     = "failed to delete order: %w"
	errFailedDeleteLineItemsFmt = "failed to delete line items: %w"
)

var (
	errFailedApplySchema          = func(err error) error { return fmt.Errorf(errFailedApplySchemaFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCountStaff           = func(err error) error { return fmt.Errorf(errFailedCountStaffFmt, err) }
	errFailedCreateBuyer          = func(err error) error { return fmt.Errorf(errFailedCreateBuyerFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateImage          = func(err error) error { return fmt.Errorf(errFailedCreateImageFmt, err) }
	errFailedCreateLineItem       = func(err error) error { return fmt.Errorf(errFailedCreateLineItemFmt, err) }
	errFailedCreateOrder          = func(err error) error { return fmt.Errorf(errFailedCreateOrderFmt, err) }
	errFailedCreateProduct        = func(err error) error { return fmt.Errorf(errFailedCreateProductFmt, err) }
	errFailedCreateStaff          = func(err error) error { return fmt.Errorf(errFailedCreateStaffFmt, err) }
	errFailedDeleteLineItems      = func(err error) error { return fmt.Errorf(errFailedDeleteLineItemsFmt, err) }
	errFailedDeleteOrder          = func(err error) error { return fmt.Errorf(errFailedDeleteOrderFmt, err) }
	errFailedDeleteProduct        = func(err error) error { return fmt.Errorf(errFailedDeleteProductFmt, err) }
	errFailedDeleteStaff          = func(err error) error { return fmt.Errorf(errFailedDeleteStaffFmt, err) }
	errFailedGetBuyer             = func(err error) error { return fmt.Errorf(errFailedGetBuyerFmt, err) }
	errFailedGetOrder             = func(err error) error { return fmt.Errorf(errFailedGetOrderFmt, err) }
	errFailedGetProduct           = func(err error) error { return fmt.Errorf(errFailedGetProductFmt, err) }
	errFailedGetStaff             = func(err error) error { return fmt.Errorf(errFailedGetStaffFmt, err) }
	errFailedListImages           = func(err error) error { return fmt.Errorf(errFailedListImagesFmt, err) }
	errFailedListLineItems        = func(err error) error { return fmt.Errorf(errFailedListLineItemsFmt, err) }
	errFailedListOrders           = func(err error) error { return fmt.Errorf(errFailedListOrdersFmt, err) }
	errFailedListProducts         = func(err error) error { return fmt.Errorf(errFailedListProductsFmt, err) }
	errFailedListStaff            = func(err error) error { return fmt.Errorf(errFailedListStaffFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanImage            = func(err error) error { return fmt.Errorf(errFailedScanImageFmt, err) }
	errFailedScanLineItem         = func(err error) error { return fmt.Errorf(errFailedScanLineItemFmt, err) }
	errFailedScanOrder            = func(err error) error { return fmt.Errorf(errFailedScanOrderFmt, err) }
	errFailedScanProduct          = func(err error) error { return fmt.Errorf(errFailedScanProductFmt, err) }
	errFailedScanStaff            = func(err error) error { return fmt.Errorf(errFailedScanStaffFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedUpdateOrder          = func(err error) error { return fmt.Errorf(errFailedUpdateOrderFmt, err) }
	errFailedUpdateProduct        = func(err error) error { return fmt.Errorf(errFailedUpdateProductFmt, err) }
)
