package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
	"github.com/apper-canvas/study-primary-pixel/pkg/response"
)

// GradeHandler 成绩记录 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// ListGrades 获取成绩记录
// GET /api/v1/grades?course_id=1
func (h *GradeHandler) ListGrades(c *gin.Context) {
	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grades, err := h.gradeSvc.List(c.Request.Context(), req.CourseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OKList(c, grades)
}

// GetGradeByAssignment 按作业查询成绩记录
// GET /api/v1/grades/assignment/:id
func (h *GradeHandler) GetGradeByAssignment(c *gin.Context) {
	assignmentID, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	g, err := h.gradeSvc.GetByAssignment(c.Request.Context(), assignmentID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, g)
}

// CreateGrade 创建成绩记录
// POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	g, err := h.gradeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.Created(c, g)
}

// UpdateGrade 更新成绩记录
// PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	g, err := h.gradeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, g)
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 22001, "成绩记录不存在")
	default:
		handleInfraError(c, err)
	}
}
