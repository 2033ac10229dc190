package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/audit"
	"storefront/internal/auth"
	"storefront/internal/domain/order"
)

type OrderHandler struct {
	orders OrderService
	audit  AuditRecorder
}

func NewOrderHandler(orders OrderService, auditLogger AuditRecorder) *OrderHandler {
	return &OrderHandler{orders: orders, audit: auditLogger}
}

type CreateOrderRequest struct {
	Address string             `json:"address"`
	Items   []OrderItemRequest `json:"items"`
}

// OrderItemRequest accepts a client price so carts echoing one still decode,
// but only product and quantity reach the order service.
type OrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     json.RawMessage `json:"price,omitempty"`
}

func (r CreateOrderRequest) items() []order.ItemRequest {
	items := make([]order.ItemRequest, len(r.Items))
	for i, item := range r.Items {
		items[i] = order.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return items
}

type UpdateStatusRequest struct {
	Status order.Status `json:"status"`
}

type UpdateStatusResponse struct {
	OrderID int64        `json:"order_id"`
	Status  order.Status `json:"status"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	buyerID, err := auth.GetBuyerID(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	receipt, err := h.orders.CreateOrder(c.Request().Context(), buyerID, req.Address, req.items())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, receipt)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	buyerID, err := auth.GetBuyerID(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListOrdersForBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return err
	}

	return respondItems(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetMyOrder(c echo.Context) error {
	buyerID, err := auth.GetBuyerID(c)
	if err != nil {
		return err
	}

	orderID, err := parseIDParam(c, "order id")
	if err != nil {
		return err
	}

	detail, err := h.orders.GetOrderForBuyer(c.Request().Context(), orderID, buyerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	var status *order.Status
	if raw := c.QueryParam(queryStatus); raw != "" {
		s := order.Status(raw)
		status = &s
	}

	orders, err := h.orders.ListOrders(c.Request().Context(), status)
	if err != nil {
		return err
	}

	return respondItems(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := parseIDParam(c, "order id")
	if err != nil {
		return err
	}

	detail, err := h.orders.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseIDParam(c, "order id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.orders.TransitionStatus(c.Request().Context(), orderID, req.Status)
	recordOutcome(h.audit, c, audit.ResourceOrder, &orderID, audit.ActionChangeStatus,
		map[string]any{"status": string(req.Status)}, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UpdateStatusResponse{OrderID: updated.ID, Status: updated.Status})
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	orderID, err := parseIDParam(c, "order id")
	if err != nil {
		return err
	}

	err = h.orders.DeleteOrder(c.Request().Context(), orderID)
	recordOutcome(h.audit, c, audit.ResourceOrder, &orderID, audit.ActionDelete, nil, err)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgOrderDeleted)
}
