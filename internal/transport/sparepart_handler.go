package transport

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"spareparts-be/internal/sparepart"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SparePartHandler struct {
	parts sparepart.Service
}

func NewSparePartHandler(parts sparepart.Service) *SparePartHandler {
	return &SparePartHandler{parts: parts}
}

func (h *SparePartHandler) respondList(c *gin.Context, parts []*sparepart.SparePart, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

// ListActive returns the public catalog.
//
// @Summary  List active spare parts
// @Tags     spareparts
// @Produce  json
// @Success  200 {array} sparepart.SparePart
// @Router   /spareparts [get]
func (h *SparePartHandler) ListActive(c *gin.Context) {
	parts, err := h.parts.ListActive(c.Request.Context())
	h.respondList(c, parts, err)
}

func (h *SparePartHandler) ListAll(c *gin.Context) {
	parts, err := h.parts.ListAll(c.Request.Context())
	h.respondList(c, parts, err)
}

func (h *SparePartHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.parts.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SparePartHandler) GetByNumber(c *gin.Context) {
	p, err := h.parts.GetByPartNumber(c.Request.Context(), c.Param("partNumber"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Search matches keyword against name, number, category and brand.
//
// @Summary  Search spare parts
// @Tags     spareparts
// @Produce  json
// @Param    keyword query string true "Search keyword"
// @Success  200 {array} sparepart.SparePart
// @Router   /spareparts/search [get]
func (h *SparePartHandler) Search(c *gin.Context) {
	parts, err := h.parts.Search(c.Request.Context(), c.Query("keyword"))
	h.respondList(c, parts, err)
}

func (h *SparePartHandler) ListByCategory(c *gin.Context) {
	parts, err := h.parts.ListByCategory(c.Request.Context(), c.Param("category"))
	h.respondList(c, parts, err)
}

func (h *SparePartHandler) ListCategories(c *gin.Context) {
	categories, err := h.parts.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *SparePartHandler) ListLowStock(c *gin.Context) {
	parts, err := h.parts.ListLowStock(c.Request.Context())
	h.respondList(c, parts, err)
}

// Create adds a catalog entry.
//
// @Summary  Create spare part
// @Tags     spareparts
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    body body sparepart.Input true "Spare part"
// @Success  200 {object} sparepart.SparePart
// @Failure  400 {object} map[string]string
// @Router   /spareparts [post]
func (h *SparePartHandler) Create(c *gin.Context) {
	var in sparepart.Input
	if !bind(c, &in) {
		return
	}
	p, err := h.parts.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SparePartHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in sparepart.Input
	if !bind(c, &in) {
		return
	}
	p, err := h.parts.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SparePartHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.parts.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "Spare part deleted successfully")
}

type stockRequest struct {
	Delta int `json:"delta"`
}

func (h *SparePartHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req stockRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.parts.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Export downloads the whole catalog as a spreadsheet.
//
// @Summary  Export inventory workbook
// @Tags     spareparts
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security Bearer
// @Success  200 {file} file
// @Router   /spareparts/export [get]
func (h *SparePartHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.parts.ExportWorkbook(c.Request.Context(), &buf); err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
