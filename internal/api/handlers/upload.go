package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/api/models"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/observability/metrics"
)

// UploadHandler stores workbooks between the column picker and the render.
type UploadHandler struct {
	cache    *data.UploadCache
	service  *heatmap.Service
	maxBytes int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(cache *data.UploadCache, service *heatmap.Service, maxBytes int64) *UploadHandler {
	return &UploadHandler{cache: cache, service: service, maxBytes: maxBytes}
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, CodeInvalidRequest,
				fmt.Sprintf("workbook exceeds %d bytes", h.maxBytes))
			return
		}
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "multipart field \"file\" is required: "+err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Sprintf("unsupported file type %q, expected .xlsx", ext))
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "read upload: "+err.Error())
		return
	}

	wb, err := data.OpenWorkbookBytes(raw)
	if err != nil {
		respondFailure(c, err)
		return
	}
	sheets := wb.Sheets()
	wb.Close()

	u := h.cache.Put(filepath.Base(header.Filename), raw, sheets)
	metrics.ObserveUpload(len(raw), h.cache.Len())

	c.JSON(http.StatusCreated, models.UploadResponse{
		UploadID:  u.ID,
		FileName:  u.FileName,
		Sheets:    u.Sheets,
		ExpiresAt: u.ExpiresAt,
	})
}

// Columns handles GET /api/v1/uploads/:id/columns?sheet=
func (h *UploadHandler) Columns(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}
	sheet := c.Query("sheet")
	if sheet == "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "sheet query parameter is required")
		return
	}

	cols, err := h.service.Columns(c.Request.Context(), u.Data, sheet)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ColumnsResponse{Sheet: sheet, Columns: cols})
}

// Delete handles DELETE /api/v1/uploads/:id
func (h *UploadHandler) Delete(c *gin.Context) {
	if _, ok := h.lookup(c); !ok {
		return
	}
	h.cache.Delete(c.Param("id"))
	metrics.SetUploadsActive(h.cache.Len())
	c.Status(http.StatusNoContent)
}

func (h *UploadHandler) lookup(c *gin.Context) (*data.Upload, bool) {
	return lookupUpload(c, h.cache, c.Param("id"))
}

func lookupUpload(c *gin.Context, cache *data.UploadCache, id string) (*data.Upload, bool) {
	u, ok := cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, CodeUploadNotFound,
			fmt.Sprintf("upload %q not found or expired, upload the workbook again", id))
		return nil, false
	}
	return u, true
}
