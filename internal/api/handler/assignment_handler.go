package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
	"github.com/apper-canvas/study-primary-pixel/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments 获取作业列表（可按课程 / 状态筛选并排序）
// GET /api/v1/assignments?course_id=all&status=pending&sort=dueDate
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKList(c, list)
}

// ListCourseAssignments 获取某课程下的作业；课程不存在时返回空列表
// GET /api/v1/courses/:id/assignments
func (h *AssignmentHandler) ListCourseAssignments(c *gin.Context) {
	courseID, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKList(c, list)
}

// GetAssignment 获取作业详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// CreateAssignment 创建作业
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	a, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, a)
}

// UpdateAssignment 更新作业（部分字段，含评分）
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	a, err := h.assignmentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAssignment 删除作业
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.assignmentSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, 21001, "作业不存在")
		return
	}

	response.OK(c, nil)
}

// ToggleAssignment 切换作业完成状态
// PATCH /api/v1/assignments/:id/toggle
func (h *AssignmentHandler) ToggleAssignment(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.assignmentSvc.ToggleComplete(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 21001, "作业不存在")
	case errors.Is(err, service.ErrAssignmentFilterInvalid):
		response.BadRequest(c, 21002, "筛选参数无效")
	case errors.Is(err, service.ErrDueDateInvalid):
		response.BadRequest(c, 21003, "截止时间格式无效")
	default:
		handleInfraError(c, err)
	}
}
