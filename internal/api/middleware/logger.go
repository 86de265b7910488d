package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/observability/metrics"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// Logger tags every request with a correlation id, then logs and counts it
// once the handler chain returns.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = logging.NewCorrelationID()
		}
		c.Request = c.Request.WithContext(logging.WithCorrelationID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status, duration)

		entry := logging.L.WithContext(c.Request.Context()).WithFields(logging.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": status,
			"duration_ms": duration.Milliseconds(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
