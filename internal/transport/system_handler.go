package transport

import (
	"context"
	"net/http"

	"spareparts-be/internal/delivery"
	"spareparts-be/internal/payment"
	"spareparts-be/internal/report"

	"github.com/gin-gonic/gin"
)

// ReportBuilder builds a report by type name.
type ReportBuilder interface {
	Create(ctx context.Context, kind string) (report.Report, error)
}

// Observed is a notification fan-out whose handlers can be listed.
type Observed interface {
	Names() []string
	Stats() map[string]uint64
}

// SystemHandler exposes reports and the registered payment, delivery and
// notification backends.
type SystemHandler struct {
	reports    ReportBuilder
	payments   *payment.Selector
	deliveries *delivery.Selector
	orders     Observed
	warranties Observed
}

func NewSystemHandler(
	reports ReportBuilder,
	payments *payment.Selector,
	deliveries *delivery.Selector,
	orders Observed,
	warranties Observed,
) *SystemHandler {
	return &SystemHandler{
		reports:    reports,
		payments:   payments,
		deliveries: deliveries,
		orders:     orders,
		warranties: warranties,
	}
}

// Report generates a SALES, INVENTORY or DELIVERY report.
//
// @Summary  Generate report
// @Tags     system
// @Produce  json
// @Security Bearer
// @Param    type path string true "Report type"
// @Success  200 {object} map[string]interface{}
// @Failure  400 {object} map[string]interface{}
// @Router   /system/reports/{type} [get]
func (h *SystemHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()

	r, err := h.reports.Create(ctx, c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           err.Error(),
			"available_types": report.Available(),
		})
		return
	}

	data, err := r.Data(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	formatted, err := r.Export(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report_type":      r.Type(),
		"report_title":     r.Title(),
		"generated_at":     r.GeneratedAt(),
		"data":             data,
		"formatted_report": formatted,
	})
}

func (h *SystemHandler) ReportTypes(c *gin.Context) {
	out := make(map[string]string)
	for _, kind := range report.Available() {
		out[kind] = report.Describe(kind)
	}
	c.JSON(http.StatusOK, out)
}

func (h *SystemHandler) PaymentMethods(c *gin.Context) {
	instructions := make(map[string][]string)
	methods := h.payments.Methods()
	for _, m := range methods {
		instructions[m] = payment.GetInstructions(m)
	}
	c.JSON(http.StatusOK, gin.H{
		"available_methods": methods,
		"instructions":      instructions,
	})
}

func (h *SystemHandler) DeliveryMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"available_methods": h.deliveries.Methods()})
}

func observerInfo(o Observed) gin.H {
	names := o.Names()
	return gin.H{
		"count":    len(names),
		"handlers": names,
		"stats":    o.Stats(),
	}
}

func (h *SystemHandler) Observers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":    observerInfo(h.orders),
		"warranty": observerInfo(h.warranties),
	})
}
