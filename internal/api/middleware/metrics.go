package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apper-canvas/study-primary-pixel/internal/metrics"
)

// Metrics 记录请求数、耗时与并发数；未匹配路由统一记为 "unknown"，避免标签基数膨胀
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPInflight.Inc()
		defer metrics.HTTPInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
