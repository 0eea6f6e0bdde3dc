package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apper-canvas/study-primary-pixel/internal/api/middleware"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
	"github.com/apper-canvas/study-primary-pixel/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出 / 导入模块 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportGrades 导出成绩单
// GET /api/v1/export/grades
func (h *ExportHandler) ExportGrades(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportGrades(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, xlsxContentType, filename, buf.Bytes())
}

// ExportCalendar 导出课表为 iCalendar
// GET /api/v1/export/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	data, filename, err := h.calendarSvc.ExportCalendar(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, icsContentType, filename, data)
}

// ImportCalendar 从 iCalendar 导入课程
// POST /api/v1/import/calendar
//
// 支持 multipart 表单（字段 file）或直接以 text/calendar 作为请求体
func (h *ExportHandler) ImportCalendar(c *gin.Context) {
	body := c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, 10001, "无法读取上传文件")
			return
		}
		defer f.Close()
		body = f
	} else if middleware.IsBodyTooLarge(err) {
		h.handleExportError(c, err)
		return
	}

	result, err := h.calendarSvc.ImportCalendar(c.Request.Context(), body)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 23001, "生成导出文件失败")
	case errors.Is(err, service.ErrCalendarInvalid):
		response.BadRequest(c, 23002, "日历文件格式无效")
	case middleware.IsBodyTooLarge(err):
		response.Error(c, http.StatusRequestEntityTooLarge, 23003, "上传文件过大")
	default:
		handleInfraError(c, err)
	}
}
