package handler

import "github.com/apper-canvas/study-primary-pixel/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course     *CourseHandler
	Assignment *AssignmentHandler
	Grade      *GradeHandler
	Planner    *PlannerHandler
	Export     *ExportHandler
	Health     *HealthHandler
}

// NewHandler 创建 Handler 聚合；checks 为健康检查项（存储、Redis 等）
func NewHandler(svc *service.Service, checks ...HealthCheck) *Handler {
	return &Handler{
		Course:     NewCourseHandler(svc.Course),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Grade:      NewGradeHandler(svc.Grade),
		Planner:    NewPlannerHandler(svc.Planner),
		Export:     NewExportHandler(svc.Export, svc.Calendar),
		Health:     NewHealthHandler(checks...),
	}
}
