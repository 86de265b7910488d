package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/api/models"
	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/pivot"
)

// Error codes of the JSON error body.
const (
	CodeFileRead       = "FILE_READ_ERROR"
	CodeSheetNotFound  = "SHEET_NOT_FOUND"
	CodePreamble       = "PREAMBLE_ERROR"
	CodeColumnNotFound = "COLUMN_NOT_FOUND"
	CodeParse          = "PARSE_ERROR"
	CodePivot          = "PIVOT_ERROR"
	CodeRender         = "RENDER_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
	CodeUploadNotFound = "UPLOAD_NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
)

type failureMapping struct {
	code   string
	status int
}

var failureCodes = map[pivot.Kind]failureMapping{
	pivot.KindFileRead:     {CodeFileRead, http.StatusBadRequest},
	pivot.KindSheetLookup:  {CodeSheetNotFound, http.StatusNotFound},
	pivot.KindPreamble:     {CodePreamble, http.StatusUnprocessableEntity},
	pivot.KindColumnLookup: {CodeColumnNotFound, http.StatusNotFound},
	pivot.KindParse:        {CodeParse, http.StatusUnprocessableEntity},
	pivot.KindPivot:        {CodePivot, http.StatusUnprocessableEntity},
	pivot.KindRender:       {CodeRender, http.StatusInternalServerError},
	pivot.KindInternal:     {CodeInternal, http.StatusInternalServerError},
}

// respondFailure writes err as the JSON error body. Non pipeline errors are
// reported as internal.
func respondFailure(c *gin.Context, err error) {
	f := pivot.AsFailure(err)
	m, ok := failureCodes[f.Kind]
	if !ok {
		m = failureCodes[pivot.KindInternal]
	}

	details := map[string]interface{}{"kind": string(f.Kind)}
	if f.Op != "" {
		details["op"] = f.Op
	}
	if f.Row > 0 {
		details["row"] = f.Row
	}
	if f.Value != "" {
		details["value"] = f.Value
	}

	if !f.UserFixable() {
		logging.L.WithContext(c.Request.Context()).WithError(err).Error("request failed")
	}
	c.JSON(m.status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    m.code,
			Message: f.Error(),
			Details: details,
		},
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
