package transport

import (
	"errors"
	"net/http"

	"spareparts-be/internal/feedback"
	"spareparts-be/internal/user"

	"github.com/gin-gonic/gin"
)

var errFeedbackAccess = errors.New("You can only view your own feedback")

type FeedbackHandler struct {
	feedback feedback.Service
}

func NewFeedbackHandler(svc feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedback: svc}
}

type respondRequest struct {
	Response string `json:"response"`
}

func (h *FeedbackHandler) respond(c *gin.Context, f *feedback.Feedback, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FeedbackHandler) respondList(c *gin.Context, fs []*feedback.Feedback, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fs)
}

// Create stores feedback from the calling customer.
//
// @Summary  Submit feedback
// @Tags     feedback
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    body body feedback.CreateInput true "Feedback"
// @Success  200 {object} feedback.Feedback
// @Failure  400 {object} map[string]string
// @Router   /feedback/create [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	var in feedback.CreateInput
	if !bind(c, &in) {
		return
	}
	f, err := h.feedback.Create(c.Request.Context(), who.ID, in)
	h.respond(c, f, err)
}

func (h *FeedbackHandler) ListAll(c *gin.Context) {
	fs, err := h.feedback.ListAll(c.Request.Context())
	h.respondList(c, fs, err)
}

func (h *FeedbackHandler) ListForCustomer(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	fs, err := h.feedback.ListByCustomer(c.Request.Context(), id)
	h.respondList(c, fs, err)
}

func (h *FeedbackHandler) MyFeedback(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	fs, err := h.feedback.ListByCustomer(c.Request.Context(), who.ID)
	h.respondList(c, fs, err)
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.feedback.Get(c.Request.Context(), id)
	if err == nil && who.is(user.RoleCustomer) && f.CustomerID != who.ID {
		err = errFeedbackAccess
	}
	h.respond(c, f, err)
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.feedback.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "Feedback deleted successfully")
}

func (h *FeedbackHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.feedback.MarkRead(c.Request.Context(), id)
	h.respond(c, f, err)
}

func (h *FeedbackHandler) Respond(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req respondRequest
	if !bind(c, &req) {
		return
	}
	f, err := h.feedback.Respond(c.Request.Context(), id, who.ID, req.Response)
	h.respond(c, f, err)
}
