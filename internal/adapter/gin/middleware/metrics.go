package middleware

import (
	"github.com/gin-gonic/gin"

	"commerce-service/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests labelled by
// route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.HTTPRequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
