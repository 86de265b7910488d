package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/api/models"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/render"
)

// SuccessMessage is shown after a heatmap was generated.
const SuccessMessage = "Heatmapa byla úspěšně vygenerována!"

// HeatmapHandler handles heatmap generation and download
type HeatmapHandler struct {
	cache   *data.UploadCache
	service *heatmap.Service
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(cache *data.UploadCache, service *heatmap.Service) *HeatmapHandler {
	return &HeatmapHandler{cache: cache, service: service}
}

// Render handles POST /api/v1/heatmap
func (h *HeatmapHandler) Render(c *gin.Context) {
	var req models.HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	res, ok := h.build(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.HeatmapResponse{
		Message: SuccessMessage,
		Title:   res.Title,
		Figure:  res.Figure,
		Matrix:  res.Matrix,
		Summary: res.Summary,
	})
}

// Export handles POST /api/v1/heatmap/export
func (h *HeatmapHandler) Export(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	res, ok := h.build(c, req.HeatmapRequest)
	if !ok {
		return
	}

	out, err := h.service.Render(c.Request.Context(), res, format, req.FileName)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	c.Data(http.StatusOK, out.MIMEType, out.Data)
}

func (h *HeatmapHandler) build(c *gin.Context, req models.HeatmapRequest) (*heatmap.Result, bool) {
	dup, err := pivot.ParseDuplicatePolicy(req.Duplicates)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return nil, false
	}
	if req.Duplicates == "" {
		dup = ""
	}
	u, ok := lookupUpload(c, h.cache, req.UploadID)
	if !ok {
		return nil, false
	}

	res, err := h.service.Build(c.Request.Context(), u.Data, pivot.Request{
		Sheet:             req.Sheet,
		TimestampColumn:   req.TimestampColumn,
		ConsumptionColumn: req.ConsumptionColumn,
		Title:             req.Title,
		Duplicates:        dup,
	})
	if err != nil {
		respondFailure(c, err)
		return nil, false
	}
	return res, true
}
