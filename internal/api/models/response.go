package models

import (
	"time"

	"consumption-heatmap/internal/analysis"
	"consumption-heatmap/internal/model"
	"consumption-heatmap/internal/render"
)

// UploadResponse describes a stored workbook.
type UploadResponse struct {
	UploadID  string    `json:"upload_id"`
	FileName  string    `json:"file_name"`
	Sheets    []string  `json:"sheets"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ColumnsResponse lists the selectable columns of one sheet.
type ColumnsResponse struct {
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
}

// HeatmapResponse is a generated heatmap.
type HeatmapResponse struct {
	Message string                   `json:"message"`
	Title   string                   `json:"title"`
	Figure  *render.Figure           `json:"figure"`
	Matrix  *model.ConsumptionMatrix `json:"matrix"`
	Summary analysis.Summary         `json:"summary"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
