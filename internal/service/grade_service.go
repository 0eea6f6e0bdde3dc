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

// ── 成绩记录模块业务错误 ──

var (
	ErrGradeNotFound = errors.New("成绩记录不存在")
)

// GradeService 旧版成绩记录业务接口
//
// 成绩记录独立于 Assignment.Grade，不参与课程成绩与 GPA 计算；不提供删除。
type GradeService interface {
	// List courseID 为 0 时返回全部
	List(ctx context.Context, courseID int) ([]dto.GradeResponse, error)
	GetByAssignment(ctx context.Context, assignmentID int) (*dto.GradeResponse, error)
	Create(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *gradeService) List(ctx context.Context, courseID int) ([]dto.GradeResponse, error) {
	var (
		grades []model.Grade
		err    error
	)
	if courseID > 0 {
		grades, err = s.repo.Grade.ListByCourse(ctx, courseID)
	} else {
		grades, err = s.repo.Grade.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出成绩记录失败", zap.Int("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, *toGradeResponse(&grades[i]))
	}
	return result, nil
}

// ────────────────────── GetByAssignment ──────────────────────

func (s *gradeService) GetByAssignment(ctx context.Context, assignmentID int) (*dto.GradeResponse, error) {
	g, err := s.repo.Grade.GetByAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询成绩记录失败", zap.Int("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	return toGradeResponse(g), nil
}

// ────────────────────── Create ──────────────────────

func (s *gradeService) Create(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	g := &model.Grade{
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}
	if err := s.repo.Grade.Create(ctx, g); err != nil {
		s.logger.Error("创建成绩记录失败", zap.Int("assignment_id", req.AssignmentID), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("grade", "create").Inc()
	return toGradeResponse(g), nil
}

// ────────────────────── Update ──────────────────────

func (s *gradeService) Update(ctx context.Context, id int, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	g, err := s.repo.Grade.Update(ctx, id, model.GradePatch{
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("更新成绩记录失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	metrics.RecordChangesTotal.WithLabelValues("grade", "update").Inc()
	return toGradeResponse(g), nil
}
