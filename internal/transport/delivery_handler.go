package transport

import (
	"net/http"

	"spareparts-be/internal/delivery"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveries delivery.Service
}

func NewDeliveryHandler(deliveries delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

func (h *DeliveryHandler) respond(c *gin.Context, d *delivery.Delivery, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DeliveryHandler) respondList(c *gin.Context, ds []*delivery.Delivery, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (h *DeliveryHandler) List(c *gin.Context) {
	ds, err := h.deliveries.List(c.Request.Context())
	h.respondList(c, ds, err)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.deliveries.Get(c.Request.Context(), id)
	h.respond(c, d, err)
}

func (h *DeliveryHandler) GetByOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	d, err := h.deliveries.GetByOrder(c.Request.Context(), orderID)
	h.respond(c, d, err)
}

func (h *DeliveryHandler) MyDeliveries(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	ds, err := h.deliveries.ListByStaff(c.Request.Context(), who.ID)
	h.respondList(c, ds, err)
}

func (h *DeliveryHandler) ListByStatus(c *gin.Context) {
	ds, err := h.deliveries.ListByStatus(c.Request.Context(), c.Param("status"))
	h.respondList(c, ds, err)
}

// UpdateStatus reads status and optional notes from the query string.
//
// @Summary  Update delivery status
// @Tags     deliveries
// @Produce  json
// @Security Bearer
// @Param    id     path  int    true  "Delivery ID"
// @Param    status query string true  "New status"
// @Param    notes  query string false "Tracking notes"
// @Success  200 {object} delivery.Delivery
// @Failure  400 {object} map[string]string
// @Router   /deliveries/{id}/status [put]
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var notes *string
	if n, present := c.GetQuery("notes"); present {
		notes = &n
	}
	d, err := h.deliveries.UpdateStatus(c.Request.Context(), id, c.Query("status"), notes)
	h.respond(c, d, err)
}

func (h *DeliveryHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	staffID, err := queryID(c, "staffId")
	if err != nil || staffID == nil {
		fail(c, errInvalidID)
		return
	}

	d, err := h.deliveries.AssignStaff(c.Request.Context(), id, *staffID)
	h.respond(c, d, err)
}

func (h *DeliveryHandler) UpdateDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	staffID, err := queryID(c, "staffId")
	if err != nil {
		fail(c, err)
		return
	}

	var address *string
	if a, present := c.GetQuery("address"); present {
		address = &a
	}
	d, err := h.deliveries.UpdateDetails(c.Request.Context(), id, staffID, address)
	h.respond(c, d, err)
}

func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deliveries.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "Delivery deleted successfully")
}
