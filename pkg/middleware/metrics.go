package middleware

import (
	"time"

	"recipe-blog/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func MetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(service, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
