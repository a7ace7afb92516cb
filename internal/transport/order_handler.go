package transport

import (
	"errors"
	"net/http"

	"spareparts-be/internal/order"
	"spareparts-be/internal/user"

	"github.com/gin-gonic/gin"
)

var errOrderAccess = errors.New("You can only view your own orders")

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create places an order for the calling customer.
//
// @Summary  Place order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    body body order.CreateOrderInput true "Order"
// @Success  200 {object} order.Order
// @Failure  400 {object} map[string]string
// @Router   /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	var in order.CreateOrderInput
	if !bind(c, &in) {
		return
	}

	o, err := h.orders.CreateOrder(c.Request.Context(), who.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListCustomerOrders(c.Request.Context(), who.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListForCustomer(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	if who.is(user.RoleCustomer) && who.ID != customerID {
		fail(c, errOrderAccess)
		return
	}

	orders, err := h.orders.ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if who.is(user.RoleCustomer) && o.CustomerID != who.ID {
		fail(c, errOrderAccess)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListByStatus(c *gin.Context) {
	orders, err := h.orders.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Approve accepts a pending order and schedules its delivery.
//
// @Summary  Approve order
// @Tags     orders
// @Produce  json
// @Security Bearer
// @Param    id path int true "Order ID"
// @Success  200 {object} order.Order
// @Failure  400 {object} map[string]string
// @Router   /orders/{id}/approve [put]
func (h *OrderHandler) Approve(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.ApproveOrder(c.Request.Context(), id, who.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus moves an order to the status given in the query string.
//
// @Summary  Update order status
// @Tags     orders
// @Produce  json
// @Security Bearer
// @Param    id     path  int    true "Order ID"
// @Param    status query string true "New status"
// @Success  200 {object} order.Order
// @Failure  400 {object} map[string]string
// @Router   /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
