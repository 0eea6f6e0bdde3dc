package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/planner"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 派生视图业务错误 ──

var (
	ErrWeekdayInvalid = errors.New("星期名称无效")
)

// PlannerService 派生视图：成绩页、仪表盘、今日课程、周课表
//
// 每次调用都重新读取快照，不缓存任何派生结果。
type PlannerService interface {
	GradeReport(ctx context.Context) (*dto.GradeReportResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// Today day 为空时取当前日期对应的星期
	Today(ctx context.Context, day string) (*dto.TodayResponse, error)
	Week(ctx context.Context) (*dto.WeekResponse, error)
}

// PlannerOptions 派生视图参数
type PlannerOptions struct {
	Now           Clock
	Location      *time.Location
	UpcomingLimit int
}

type plannerService struct {
	repo   *repository.Repository
	logger *zap.Logger
	opts   PlannerOptions
}

// NewPlannerService 创建 PlannerService 实例
func NewPlannerService(repo *repository.Repository, logger *zap.Logger, opts PlannerOptions) PlannerService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = planner.DefaultUpcomingLimit
	}
	return &plannerService{repo: repo, logger: logger, opts: opts}
}

func (s *plannerService) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *plannerService) snapshot(ctx context.Context) (*snapshot, error) {
	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("读取课程与作业快照失败", zap.Error(err))
		return nil, err
	}
	return snap, nil
}

// ────────────────────── GradeReport ──────────────────────

func (s *plannerService) GradeReport(ctx context.Context) (*dto.GradeReportResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reports := planner.CourseReports(snap.courses, snap.assignments)
	resp := &dto.GradeReportResponse{Courses: make([]dto.CourseGradeResponse, 0, len(reports))}
	for _, r := range reports {
		row := dto.CourseGradeResponse{
			CourseID:    r.Course.ID,
			CourseName:  r.Course.Name,
			Color:       r.Course.Color,
			Credits:     r.Course.Credits,
			GradedCount: r.GradedCount,
			TotalCount:  r.TotalCount,
		}
		if r.Graded {
			grade := r.Grade
			point := r.GradePoint
			row.Grade = &grade
			row.GradePoint = &point
			row.Letter = r.Letter
			row.Standing = string(r.Standing)
		}
		resp.Courses = append(resp.Courses, row)
	}

	if gpa, ok := planner.OverallGPA(snap.courses, snap.assignments); ok {
		resp.GPA = &gpa
		resp.GPAText = planner.FormatGPA(gpa)
	}
	return resp, nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *plannerService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	idx := planner.IndexCourses(snap.courses)

	summary := planner.Summarize(snap.courses, snap.assignments, now)
	return &dto.DashboardResponse{
		Now: formatTime(now),
		Stats: dto.DashboardStats{
			TotalCourses:     summary.TotalCourses,
			TotalAssignments: summary.TotalAssignments,
			Completed:        summary.Completed,
			Pending:          summary.TotalAssignments - summary.Completed,
			Overdue:          summary.Overdue,
			Upcoming:         summary.Upcoming,
			DueToday:         summary.DueToday,
			CompletionRate:   summary.CompletionRate,
		},
		Today:    toClassOccurrences(planner.TodaySchedule(snap.courses, now.Weekday())),
		Upcoming: toAssignmentResponses(planner.UpcomingAssignments(snap.assignments, now, s.opts.UpcomingLimit), idx, now),
		Overdue:  toAssignmentResponses(planner.OverdueAssignments(snap.assignments, now), idx, now),
	}, nil
}

// ────────────────────── Today ──────────────────────

func (s *plannerService) Today(ctx context.Context, day string) (*dto.TodayResponse, error) {
	if day == "" {
		day = s.now().Weekday().String()
	} else {
		day = dto.NormalizeWeekday(day)
		if _, ok := weekdayByName(day); !ok {
			return nil, ErrWeekdayInvalid
		}
	}

	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	return &dto.TodayResponse{
		Day:     day,
		Classes: toClassOccurrences(planner.ScheduleForDay(courses, day)),
	}, nil
}

// ────────────────────── Week ──────────────────────

func (s *plannerService) Week(ctx context.Context) (*dto.WeekResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	grid := planner.WeeklyGrid(courses)
	resp := &dto.WeekResponse{
		Days: append([]string(nil), planner.WeekDays...),
		Rows: make([]dto.WeekRow, 0, len(grid)),
	}
	for _, row := range grid {
		out := dto.WeekRow{Hour: row.Hour, Label: row.Label, Cells: make([]dto.WeekCell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			brief := make([]dto.CourseBrief, 0, len(cell.Courses))
			for _, c := range cell.Courses {
				brief = append(brief, dto.CourseBrief{ID: c.ID, Name: c.Name, Color: c.Color})
			}
			out.Cells = append(out.Cells, dto.WeekCell{Day: cell.Day, Courses: brief})
		}
		resp.Rows = append(resp.Rows, out)
	}
	return resp, nil
}
