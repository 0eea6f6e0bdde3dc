package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/config"
	"github.com/apper-canvas/study-primary-pixel/internal/api/handler"
	"github.com/apper-canvas/study-primary-pixel/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	metricsPath := cfg.Server.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", metricsPath))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())

	// ── 健康检查 / 指标 ──
	r.GET("/health", h.Health.Health)
	r.GET(metricsPath, gin.WrapH(promhttp.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
	{
		// 课程模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.POST("", h.Course.CreateCourse)
			courses.GET("/:id", h.Course.GetCourse)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)
			courses.GET("/:id/assignments", h.Assignment.ListCourseAssignments)
		}

		// 作业模块
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Assignment.ListAssignments)
			assignments.POST("", h.Assignment.CreateAssignment)
			assignments.GET("/:id", h.Assignment.GetAssignment)
			assignments.PUT("/:id", h.Assignment.UpdateAssignment)
			assignments.DELETE("/:id", h.Assignment.DeleteAssignment)
			assignments.PATCH("/:id/toggle", h.Assignment.ToggleAssignment)
		}

		// 成绩记录
		grades := v1.Group("/grades")
		{
			grades.GET("", h.Grade.ListGrades)
			grades.POST("", h.Grade.CreateGrade)
			grades.GET("/assignment/:id", h.Grade.GetGradeByAssignment)
			grades.PUT("/:id", h.Grade.UpdateGrade)
		}

		// 派生视图（只读）
		planner := v1.Group("/planner")
		{
			planner.GET("/grades", h.Planner.GradeReport)
			planner.GET("/dashboard", h.Planner.Dashboard)
			planner.GET("/today", h.Planner.Today)
			planner.GET("/week", h.Planner.Week)
		}

		// 导出 / 导入
		v1.GET("/export/grades", h.Export.ExportGrades)
		v1.GET("/export/calendar", h.Export.ExportCalendar)
		v1.POST("/import/calendar", h.Export.ImportCalendar)
	}

	return r
}
