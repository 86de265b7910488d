// Package api wires the HTTP routes.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consumption-heatmap/internal/api/handlers"
	"consumption-heatmap/internal/api/middleware"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
)

// Deps are the collaborators of the router.
type Deps struct {
	Uploads        *data.UploadCache
	Service        *heatmap.Service
	UI             handlers.UIConfig
	AllowedOrigins []string
	MaxUploadBytes int64
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(d Deps) (*gin.Engine, error) {
	ui, err := handlers.NewUIHandler(d.UI)
	if err != nil {
		return nil, err
	}
	uploadHandler := handlers.NewUploadHandler(d.Uploads, d.Service, d.MaxUploadBytes)
	heatmapHandler := handlers.NewHeatmapHandler(d.Uploads, d.Service)

	router := gin.New()
	router.MaxMultipartMemory = d.MaxUploadBytes

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.AllowedOrigins))

	router.GET("/", ui.Index)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/uploads", uploadHandler.Upload)
		api.GET("/uploads/:id/columns", uploadHandler.Columns)
		api.DELETE("/uploads/:id", uploadHandler.Delete)

		api.POST("/heatmap", heatmapHandler.Render)
		api.POST("/heatmap/export", heatmapHandler.Export)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})
	return router, nil
}
