package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/metrics"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/planner"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 作业模块业务错误 ──

var (
	ErrAssignmentNotFound      = errors.New("作业不存在")
	ErrAssignmentFilterInvalid = errors.New("作业筛选参数无效")
	ErrDueDateInvalid          = errors.New("截止时间格式无效")
)

// AssignmentService 作业业务接口
type AssignmentService interface {
	// List 按课程 / 完成状态筛选后稳定排序
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	ListByCourse(ctx context.Context, courseID int) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id int) (*dto.AssignmentResponse, error)
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id int) (bool, error)
	ToggleComplete(ctx context.Context, id int) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
	loc    *time.Location
}

// NewAssignmentService 创建 AssignmentService 实例
// loc 用于解释不带时区的截止时间以及 "今天" 的判定
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger, now Clock, loc *time.Location) AssignmentService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &assignmentService{repo: repo, logger: logger, now: now, loc: loc}
}

func (s *assignmentService) courseIndex(ctx context.Context) (planner.CourseIndex, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	return planner.IndexCourses(courses), nil
}

func (s *assignmentService) respond(ctx context.Context, a *model.Assignment) (*dto.AssignmentResponse, error) {
	idx, err := s.courseIndex(ctx)
	if err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(a, idx, s.now().In(s.loc))
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	filter, err := planner.ParseAssignmentFilter(req.CourseID, req.Status)
	if err != nil {
		return nil, ErrAssignmentFilterInvalid
	}
	key := planner.SortKey(req.Sort)
	if req.Sort == "" {
		key = planner.SortByDueDate
	}

	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("列出作业失败", zap.Error(err))
		return nil, err
	}

	view := planner.FilterAssignments(snap.assignments, filter, key)
	return toAssignmentResponses(view, planner.IndexCourses(snap.courses), s.now().In(s.loc)), nil
}

// ────────────────────── ListByCourse ──────────────────────

func (s *assignmentService) ListByCourse(ctx context.Context, courseID int) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("按课程列出作业失败", zap.Int("course_id", courseID), zap.Error(err))
		return nil, err
	}
	idx, err := s.courseIndex(ctx)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponses(assignments, idx, s.now().In(s.loc)), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id int) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return s.respond(ctx, a)
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	due, err := dto.ParseDueDate(req.DueDate, s.loc)
	if err != nil {
		return nil, ErrDueDateInvalid
	}

	a := &model.Assignment{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		DueDate:     due,
		Priority:    model.Priority(req.Priority),
		Weight:      req.Weight,
	}
	a.ResetProgress()

	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		s.logger.Error("创建作业失败", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("assignment", "create").Inc()
	return s.respond(ctx, a)
}

// ────────────────────── Update ──────────────────────

func (s *assignmentService) Update(ctx context.Context, id int, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	patch := model.AssignmentPatch{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		Weight:      req.Weight,
		Completed:   req.Completed,
		Grade:       req.Grade,
		ClearGrade:  req.ClearGrade,
	}
	if req.DueDate != nil {
		due, err := dto.ParseDueDate(*req.DueDate, s.loc)
		if err != nil {
			return nil, ErrDueDateInvalid
		}
		patch.DueDate = &due
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}

	a, err := s.repo.Assignment.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("更新作业失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("assignment", "update").Inc()
	if req.Grade != nil && !req.ClearGrade {
		metrics.GradeScoreHistogram.WithLabelValues(strconv.Itoa(a.CourseID)).Observe(*req.Grade)
	}
	return s.respond(ctx, a)
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := s.repo.Assignment.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除作业失败", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		metrics.RecordChangesTotal.WithLabelValues("assignment", "delete").Inc()
	}
	return deleted, nil
}

// ────────────────────── ToggleComplete ──────────────────────

func (s *assignmentService) ToggleComplete(ctx context.Context, id int) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.ToggleComplete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("切换作业完成状态失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("assignment", "toggle").Inc()
	return s.respond(ctx, a)
}
