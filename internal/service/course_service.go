package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/metrics"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id int) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	// Delete 课程不存在时返回 false；不会删除该课程下的作业
	Delete(ctx context.Context, id int) (bool, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		Name:       req.Name,
		Instructor: req.Instructor,
		Credits:    req.Credits,
		Semester:   req.Semester,
		Color:      req.Color,
		Schedule:   toSlotModels(req.Schedule),
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("course", "create").Inc()

	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id int) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id int, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	patch := model.CoursePatch{
		Name:       req.Name,
		Instructor: req.Instructor,
		Credits:    req.Credits,
		Semester:   req.Semester,
		Color:      req.Color,
	}
	if req.Schedule != nil {
		slots := toSlotModels(*req.Schedule)
		patch.Schedule = &slots
	}

	course, err := s.repo.Course.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("更新课程失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("course", "update").Inc()

	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := s.repo.Course.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除课程失败", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		metrics.RecordChangesTotal.WithLabelValues("course", "delete").Inc()
		s.logger.Info("课程已删除", zap.Int("id", id))
	}
	return deleted, nil
}
