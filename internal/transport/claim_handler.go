package transport

import (
	"errors"
	"net/http"

	"spareparts-be/internal/user"
	"spareparts-be/internal/warranty"

	"github.com/gin-gonic/gin"
)

var errClaimAccess = errors.New("You can only view your own claims")

type ClaimHandler struct {
	claims warranty.ClaimService
}

func NewClaimHandler(claims warranty.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

type claimUpdateRequest struct {
	IssueDescription *string `json:"issue_description"`
	CustomerComments *string `json:"customer_comments"`
}

type claimDecisionRequest struct {
	Response string `json:"response"`
	Reason   string `json:"reason"`
}

func (h *ClaimHandler) respond(c *gin.Context, cl *warranty.Claim, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *ClaimHandler) respondList(c *gin.Context, cls []*warranty.Claim, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cls)
}

// Create opens a claim case against a delivered order item.
//
// @Summary  Create warranty claim
// @Tags     warranty-claims
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    body body warranty.ClaimInput true "Claim"
// @Success  200 {object} warranty.Claim
// @Failure  400 {object} map[string]string
// @Router   /warranty-claims/create [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	var in warranty.ClaimInput
	if !bind(c, &in) {
		return
	}
	cl, err := h.claims.CreateClaim(c.Request.Context(), who.ID, in)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) ListAll(c *gin.Context) {
	cls, err := h.claims.ListAll(c.Request.Context())
	h.respondList(c, cls, err)
}

func (h *ClaimHandler) MyClaims(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	cls, err := h.claims.ListForCustomer(c.Request.Context(), who.ID)
	h.respondList(c, cls, err)
}

func (h *ClaimHandler) Get(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.claims.Get(c.Request.Context(), id)
	if err == nil && who.is(user.RoleCustomer) && cl.CustomerID != who.ID {
		err = errClaimAccess
	}
	h.respond(c, cl, err)
}

func (h *ClaimHandler) ListByStatus(c *gin.Context) {
	cls, err := h.claims.ListByStatus(c.Request.Context(), c.Param("status"))
	h.respondList(c, cls, err)
}

func (h *ClaimHandler) Update(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req claimUpdateRequest
	if !bind(c, &req) {
		return
	}
	cl, err := h.claims.UpdateClaim(c.Request.Context(), id, who.ID, req.IssueDescription, req.CustomerComments)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) StartReview(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.claims.StartReview(c.Request.Context(), id, who.ID)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) Approve(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req claimDecisionRequest
	if !bind(c, &req) {
		return
	}
	cl, err := h.claims.ApproveClaim(c.Request.Context(), id, who.ID, req.Response)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) Reject(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req claimDecisionRequest
	if !bind(c, &req) {
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = req.Response
	}
	cl, err := h.claims.RejectClaim(c.Request.Context(), id, who.ID, reason)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) Complete(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.claims.CompleteClaim(c.Request.Context(), id, who.ID)
	h.respond(c, cl, err)
}

func (h *ClaimHandler) Delete(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.claims.DeleteClaim(c.Request.Context(), id, who.ID); err != nil {
		fail(c, err)
		return
	}
	message(c, "Claim deleted successfully")
}
