package transport

import (
	"errors"
	"net/http"

	"spareparts-be/internal/user"
	"spareparts-be/internal/warranty"

	"github.com/gin-gonic/gin"
)

var errWarrantyAccess = errors.New("You can only view your own warranties")

type WarrantyHandler struct {
	warranties warranty.Service
}

func NewWarrantyHandler(warranties warranty.Service) *WarrantyHandler {
	return &WarrantyHandler{warranties: warranties}
}

type claimRequest struct {
	Notes  string `json:"claim_notes"`
	Reason string `json:"reason"`
}

type notesRequest struct {
	Notes *string `json:"claim_notes"`
}

func (h *WarrantyHandler) respond(c *gin.Context, w *warranty.Warranty, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WarrantyHandler) respondList(c *gin.Context, ws []*warranty.Warranty, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *WarrantyHandler) MyWarranties(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	ws, err := h.warranties.ListForCustomer(c.Request.Context(), who.ID)
	h.respondList(c, ws, err)
}

func (h *WarrantyHandler) Active(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	ws, err := h.warranties.ListActiveForCustomer(c.Request.Context(), who.ID)
	h.respondList(c, ws, err)
}

func (h *WarrantyHandler) GetByNumber(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	w, err := h.warranties.GetByNumber(c.Request.Context(), c.Param("number"))
	if err == nil && who.is(user.RoleCustomer) && w.CustomerID != who.ID {
		err = errWarrantyAccess
	}
	h.respond(c, w, err)
}

func (h *WarrantyHandler) Get(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.warranties.GetByID(c.Request.Context(), id)
	if err == nil && who.is(user.RoleCustomer) && w.CustomerID != who.ID {
		err = errWarrantyAccess
	}
	h.respond(c, w, err)
}

func (h *WarrantyHandler) ListAll(c *gin.Context) {
	ws, err := h.warranties.ListAll(c.Request.Context())
	h.respondList(c, ws, err)
}

func (h *WarrantyHandler) PendingClaims(c *gin.Context) {
	ws, err := h.warranties.ListPendingClaims(c.Request.Context())
	h.respondList(c, ws, err)
}

// FileClaim opens a claim on one of the caller's active warranties.
//
// @Summary  File warranty claim
// @Tags     warranties
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    id   path int          true "Warranty ID"
// @Param    body body claimRequest true "Claim notes"
// @Success  200 {object} warranty.Warranty
// @Failure  400 {object} map[string]string
// @Router   /warranties/{id}/claim [post]
func (h *WarrantyHandler) FileClaim(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req claimRequest
	if !bind(c, &req) {
		return
	}

	w, err := h.warranties.FileClaim(c.Request.Context(), id, who.ID, req.Notes)
	h.respond(c, w, err)
}

func (h *WarrantyHandler) ApproveClaim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.warranties.ApproveClaim(c.Request.Context(), id)
	h.respond(c, w, err)
}

func (h *WarrantyHandler) RejectClaim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req claimRequest
	if !bind(c, &req) {
		return
	}
	w, err := h.warranties.RejectClaim(c.Request.Context(), id, req.Reason)
	h.respond(c, w, err)
}

func (h *WarrantyHandler) Stats(c *gin.Context) {
	stats, err := h.warranties.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WarrantyHandler) CreateManual(c *gin.Context) {
	var in warranty.ManualInput
	if !bind(c, &in) {
		return
	}
	w, err := h.warranties.CreateManual(c.Request.Context(), in)
	h.respond(c, w, err)
}

func (h *WarrantyHandler) UpdateNotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req notesRequest
	if !bind(c, &req) {
		return
	}
	w, err := h.warranties.UpdateNotes(c.Request.Context(), id, req.Notes)
	h.respond(c, w, err)
}

func (h *WarrantyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.warranties.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "Warranty deleted successfully")
}

// Expiring lists warranties running out within ?days (default 30).
//
// @Summary  Expiring warranties
// @Tags     warranties
// @Produce  json
// @Security Bearer
// @Param    days query int false "Look-ahead window in days"
// @Success  200 {array} warranty.Warranty
// @Router   /warranties/expiring [get]
func (h *WarrantyHandler) Expiring(c *gin.Context) {
	days, err := queryInt(c, "days", warranty.DefaultExpiringDays)
	if err != nil {
		fail(c, errInvalidPayload)
		return
	}
	ws, err := h.warranties.ListExpiring(c.Request.Context(), days)
	h.respondList(c, ws, err)
}

func (h *WarrantyHandler) NotifyExpiring(c *gin.Context) {
	days, err := queryInt(c, "days", warranty.DefaultExpiringDays)
	if err != nil {
		fail(c, errInvalidPayload)
		return
	}
	n, err := h.warranties.NotifyExpiring(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": n, "days": days})
}

func (h *WarrantyHandler) Valid(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if who.is(user.RoleCustomer) {
		w, err := h.warranties.GetByID(ctx, id)
		if err == nil && w.CustomerID != who.ID {
			err = errWarrantyAccess
		}
		if err != nil {
			fail(c, err)
			return
		}
	}

	valid, err := h.warranties.IsValid(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}
