package models

// HeatmapRequest selects what to plot from an uploaded workbook.
type HeatmapRequest struct {
	UploadID          string `json:"upload_id" binding:"required"`
	Sheet             string `json:"sheet" binding:"required"`
	TimestampColumn   string `json:"timestamp_column" binding:"required"`
	ConsumptionColumn string `json:"consumption_column" binding:"required"`
	Title             string `json:"title,omitempty"`
	// Duplicates is "keep-first" or "keep-last"; empty uses the server default.
	Duplicates string `json:"duplicates,omitempty"`
}

// ExportRequest is a HeatmapRequest plus download options.
type ExportRequest struct {
	HeatmapRequest
	FileName string `json:"file_name,omitempty"`
	Format   string `json:"format,omitempty"` // html (default), xlsx, pdf, csv
}
