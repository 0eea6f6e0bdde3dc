package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/config"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course     CourseService
	Assignment AssignmentService
	Grade      GradeService
	Planner    PlannerService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合
//
// 所有时间相关的判定（逾期 / 今天 / 本周）都使用 planner.timezone 指定的时区。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := cfg.Planner.Location()
	if err != nil {
		return nil, err
	}
	now := Clock(time.Now)

	return &Service{
		Course:     NewCourseService(repo, logger),
		Assignment: NewAssignmentService(repo, logger, now, loc),
		Grade:      NewGradeService(repo, logger),
		Planner: NewPlannerService(repo, logger, PlannerOptions{
			Now:           now,
			Location:      loc,
			UpcomingLimit: cfg.Planner.UpcomingLimit,
		}),
		Export:   NewExportService(repo, logger, now),
		Calendar: NewCalendarService(repo, logger, now, loc),
	}, nil
}
