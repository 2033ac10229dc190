package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain/money"
	"storefront/internal/domain/order"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/validator"
)

// Orders runs checkout, order reads and the status workflow.
type Orders struct {
	uow    repository.OrderUnitOfWork
	orders repository.OrderRepository
}

func NewOrders(uow repository.OrderUnitOfWork, orders repository.OrderRepository) *Orders {
	return &Orders{uow: uow, orders: orders}
}

func validateOrderRequest(buyerID int64, address string, items []order.ItemRequest) error {
	if buyerID <= 0 {
		return apperrors.InvalidInput(msgInvalidBuyerID)
	}
	if err := validator.Address(address); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if len(items) == 0 {
		return apperrors.InvalidInput(msgOrderItemsRequired)
	}
	if len(items) > maxOrderItems {
		return apperrors.InvalidInput(fmt.Sprintf(msgTooManyOrderItemsFmt, maxOrderItems))
	}
	for i, item := range items {
		if err := validator.PositiveID("product_id", item.ProductID); err != nil {
			return apperrors.InvalidInput(fmt.Sprintf(msgInvalidItemFmt, i, err))
		}
		if err := validator.Quantity(item.Quantity); err != nil {
			return apperrors.InvalidInput(fmt.Sprintf(msgInvalidItemFmt, i, err))
		}
	}
	return nil
}

// CreateOrder validates the request, then in one transaction snapshots the
// current price of every product, writes the header with status new and one
// line item per requested item. Any failure leaves no rows behind.
func (s *Orders) CreateOrder(ctx context.Context, buyerID int64, address string, items []order.ItemRequest) (*order.Receipt, error) {
	address = strings.TrimSpace(address)
	if err := validateOrderRequest(buyerID, address, items); err != nil {
		return nil, err
	}

	var receipt *order.Receipt
	err := s.uow.InTx(ctx, func(tx repository.OrderTx) error {
		prices := make([]money.Cents, len(items))
		var total money.Cents

		for i, item := range items {
			p, err := tx.GetProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NotFound(fmt.Sprintf(msgProductNotFoundFmt, item.ProductID))
				}
				return err
			}
			if !p.Available {
				return apperrors.NotFound(fmt.Sprintf(msgProductUnavailableFmt, item.ProductID))
			}

			line, ok := p.Price.Mul(item.Quantity)
			if !ok {
				return apperrors.InvalidInput(msgOrderTotalOverflow)
			}
			if total, ok = total.Add(line); !ok {
				return apperrors.InvalidInput(msgOrderTotalOverflow)
			}
			prices[i] = p.Price
		}

		o, err := tx.InsertOrder(ctx, order.CreateOrderInput{
			BuyerID: buyerID,
			Total:   total,
			Address: address,
			Status:  order.StatusNew,
		})
		if err != nil {
			return err
		}

		for i, item := range items {
			if _, err := tx.InsertLineItem(ctx, order.CreateLineItemInput{
				OrderID:   o.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: prices[i],
			}); err != nil {
				return err
			}
		}

		receipt = &order.Receipt{OrderID: o.ID, Total: o.Total, Status: o.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// ListOrdersForBuyer returns the buyer's orders, newest first.
func (s *Orders) ListOrdersForBuyer(ctx context.Context, buyerID int64) ([]*order.Order, error) {
	return s.orders.List(ctx, order.ListOrdersFilter{BuyerID: &buyerID})
}

// GetOrderForBuyer reports an order owned by someone else exactly like a
// missing one.
func (s *Orders) GetOrderForBuyer(ctx context.Context, orderID, buyerID int64) (*order.Detail, error) {
	detail, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgOrderNotFound)
		}
		return nil, err
	}
	if detail.BuyerID != buyerID {
		return nil, apperrors.NotFound(msgOrderNotFound)
	}
	return detail, nil
}

// ListOrders is the staff view across all buyers.
func (s *Orders) ListOrders(ctx context.Context, status *order.Status) ([]*order.Order, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}
	return s.orders.List(ctx, order.ListOrdersFilter{Status: status})
}

func (s *Orders) GetOrder(ctx context.Context, orderID int64) (*order.Detail, error) {
	return s.orders.GetDetail(ctx, orderID)
}

// DeleteOrder removes the order and its line items.
func (s *Orders) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.orders.Delete(ctx, orderID)
}

// TransitionStatus moves an order along the workflow. The order row stays
// locked from the read of the current status until the update commits.
func (s *Orders) TransitionStatus(ctx context.Context, orderID int64, requested order.Status) (*order.Order, error) {
	if !order.Requestable(requested) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(msgStatusNotRequestable, requested))
	}

	var updated *order.Order
	err := s.uow.InTx(ctx, func(tx repository.OrderTx) error {
		current, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if !current.Status.CanTransitionTo(requested) {
			if requested == order.StatusCanceled {
				return apperrors.Conflict(fmt.Sprintf(msgCancelNotAllowedFmt, current.Status))
			}
			if current.Status.IsTerminal() {
				return apperrors.Conflict(fmt.Sprintf(msgOrderClosedFmt, current.Status))
			}
			return apperrors.Conflict(fmt.Sprintf(msgTransitionNotAllowed, current.Status, requested))
		}

		updated, err = tx.UpdateStatus(ctx, orderID, requested)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
