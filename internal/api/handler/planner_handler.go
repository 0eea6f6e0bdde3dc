package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
	"github.com/apper-canvas/study-primary-pixel/pkg/response"
)

// PlannerHandler 派生视图 HTTP 处理器（只读）
type PlannerHandler struct {
	plannerSvc service.PlannerService
}

// NewPlannerHandler 创建 PlannerHandler
func NewPlannerHandler(plannerSvc service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerSvc: plannerSvc}
}

// GradeReport 各课程成绩与总 GPA
// GET /api/v1/planner/grades
func (h *PlannerHandler) GradeReport(c *gin.Context) {
	report, err := h.plannerSvc.GradeReport(c.Request.Context())
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, report)
}

// Dashboard 仪表盘
// GET /api/v1/planner/dashboard
func (h *PlannerHandler) Dashboard(c *gin.Context) {
	d, err := h.plannerSvc.Dashboard(c.Request.Context())
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, d)
}

// Today 今日（或指定星期）课程
// GET /api/v1/planner/today?day=Monday
func (h *PlannerHandler) Today(c *gin.Context) {
	var req dto.TodayRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	today, err := h.plannerSvc.Today(c.Request.Context(), req.Day)
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, today)
}

// Week 周课表
// GET /api/v1/planner/week
func (h *PlannerHandler) Week(c *gin.Context) {
	week, err := h.plannerSvc.Week(c.Request.Context())
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, week)
}

func (h *PlannerHandler) handlePlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWeekdayInvalid):
		response.BadRequest(c, 10001, "星期名称无效")
	default:
		handleInfraError(c, err)
	}
}
