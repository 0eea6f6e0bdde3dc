package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/internal/planner"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 成绩单导出
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入。
type ExportService interface {
	// ExportGrades 导出成绩单为 Excel，返回内容与建议文件名
	ExportGrades(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger, now Clock) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{repo: repo, logger: logger, now: now}
}

// 工作表名称
const (
	gradesSheet      = "课程成绩"
	assignmentsSheet = "作业明细"
)

// ═══════════════════════════════════════════════════════════
// ExportGrades: 导出成绩单
// ═══════════════════════════════════════════════════════════
//
// Sheet "课程成绩"：每门课程一行（成绩 / 等级 / 绩点 / 已评分数），末行为总 GPA
// Sheet "作业明细"：全部作业（含课程已删除的作业），按课程、截止时间排序

func (s *exportService) ExportGrades(ctx context.Context) (*bytes.Buffer, string, error) {
	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("读取成绩数据失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		s.logger.Error("初始化工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if _, err := f.NewSheet(assignmentsSheet); err != nil {
		s.logger.Error("初始化工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── 课程成绩 ──
	headers := []string{"课程", "教师", "学分", "学期", "成绩", "等级", "绩点", "已评分/作业数"}
	writeHeader(f, gradesSheet, headers, headerStyle)
	_ = f.SetColWidth(gradesSheet, "A", "A", 28)
	_ = f.SetColWidth(gradesSheet, "B", "D", 16)
	_ = f.SetColWidth(gradesSheet, "E", "H", 12)

	row := 2
	for _, r := range planner.CourseReports(snap.courses, snap.assignments) {
		_ = f.SetCellValue(gradesSheet, cell("A", row), r.Course.Name)
		_ = f.SetCellValue(gradesSheet, cell("B", row), r.Course.Instructor)
		_ = f.SetCellValue(gradesSheet, cell("C", row), r.Course.Credits)
		_ = f.SetCellValue(gradesSheet, cell("D", row), r.Course.Semester)
		if r.Graded {
			_ = f.SetCellValue(gradesSheet, cell("E", row), r.Grade)
			_ = f.SetCellValue(gradesSheet, cell("F", row), r.Letter)
			_ = f.SetCellValue(gradesSheet, cell("G", row), r.GradePoint)
		} else {
			_ = f.SetCellValue(gradesSheet, cell("E", row), "-")
			_ = f.SetCellValue(gradesSheet, cell("F", row), "-")
			_ = f.SetCellValue(gradesSheet, cell("G", row), "-")
		}
		_ = f.SetCellValue(gradesSheet, cell("H", row), fmt.Sprintf("%d/%d", r.GradedCount, r.TotalCount))
		row++
	}

	row++
	_ = f.SetCellValue(gradesSheet, cell("A", row), "总 GPA")
	if gpa, ok := planner.OverallGPA(snap.courses, snap.assignments); ok {
		_ = f.SetCellValue(gradesSheet, cell("G", row), planner.FormatGPA(gpa))
	} else {
		_ = f.SetCellValue(gradesSheet, cell("G", row), "-")
	}
	_ = f.SetCellStyle(gradesSheet, cell("A", row), cell("A", row), headerStyle)

	// ── 作业明细 ──
	writeHeader(f, assignmentsSheet, []string{"课程", "作业", "截止时间", "优先级", "权重(%)", "已完成", "成绩"}, headerStyle)
	_ = f.SetColWidth(assignmentsSheet, "A", "B", 28)
	_ = f.SetColWidth(assignmentsSheet, "C", "C", 20)
	_ = f.SetColWidth(assignmentsSheet, "D", "G", 10)

	idx := planner.IndexCourses(snap.courses)
	all := planner.FilterAssignments(snap.assignments, planner.AssignmentFilter{Status: planner.StatusAll}, planner.SortByDueDate)
	planner.SortAssignments(all, planner.SortByCourse)

	row = 2
	for _, a := range all {
		courseName := "（课程已删除）"
		if c, ok := idx.Lookup(a.CourseID); ok {
			courseName = c.Name
		}
		completed := "否"
		if a.Completed {
			completed = "是"
		}
		_ = f.SetCellValue(assignmentsSheet, cell("A", row), courseName)
		_ = f.SetCellValue(assignmentsSheet, cell("B", row), a.Title)
		_ = f.SetCellValue(assignmentsSheet, cell("C", row), a.DueDate.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(assignmentsSheet, cell("D", row), string(a.Priority))
		_ = f.SetCellValue(assignmentsSheet, cell("E", row), a.Weight)
		_ = f.SetCellValue(assignmentsSheet, cell("F", row), completed)
		if a.Grade != nil {
			_ = f.SetCellValue(assignmentsSheet, cell("G", row), *a.Grade)
		} else {
			_ = f.SetCellValue(assignmentsSheet, cell("G", row), "-")
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("grades_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		_ = f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	_ = f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), style)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
