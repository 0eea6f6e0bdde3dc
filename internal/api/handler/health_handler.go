package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck 单个依赖的健康检查；Optional 的依赖失败时只降级不判定为不健康
type HealthCheck struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

// HealthHandler 健康检查
type HealthHandler struct {
	checks []HealthCheck
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health 健康检查
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	deps := make(gin.H, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			deps[chk.Name] = err.Error()
			if chk.Optional {
				if status == "ok" {
					status = "degraded"
				}
				continue
			}
			status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[chk.Name] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": deps})
}
