package apiutil

import (
	"strconv"
	"time"

	"github.com/Aidin1998/qrmenu/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records HTTP request counts and durations for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// Route template keeps label cardinality bounded; unmatched paths share one label
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(path, method, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}
