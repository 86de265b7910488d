package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/render"
)

//go:embed templates/index.html.tmpl
var uiFS embed.FS

var uiTemplate = template.Must(template.ParseFS(uiFS, "templates/index.html.tmpl"))

// Column names of the meter operator export, preselected when present.
const (
	ExpectedTimestampColumn   = "Počátek intervalu"
	ExpectedConsumptionColumn = "Celkem Činná - spotřeba[kW]"
)

// UIConfig fills the form defaults of the upload page.
type UIConfig struct {
	DefaultTitle    string
	DefaultFileName string
	PlotlyURL       string
}

type uiView struct {
	UIConfig
	TimestampColumn   string
	ConsumptionColumn string
	Formats           []render.Format
}

// UIHandler serves the single page front end.
type UIHandler struct {
	page []byte
}

// NewUIHandler renders the page once; its content depends only on cfg.
func NewUIHandler(cfg UIConfig) (*UIHandler, error) {
	var buf bytes.Buffer
	err := uiTemplate.Execute(&buf, uiView{
		UIConfig:          cfg,
		TimestampColumn:   ExpectedTimestampColumn,
		ConsumptionColumn: ExpectedConsumptionColumn,
		Formats:           render.Formats(),
	})
	if err != nil {
		return nil, err
	}
	return &UIHandler{page: buf.Bytes()}, nil
}

// Index handles GET /
func (h *UIHandler) Index(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
