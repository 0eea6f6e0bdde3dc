package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// GradeRepository 旧版成绩记录数据访问接口（无删除操作）
type GradeRepository interface {
	List(ctx context.Context) ([]model.Grade, error)
	ListByCourse(ctx context.Context, courseID int) ([]model.Grade, error)
	GetByAssignment(ctx context.Context, assignmentID int) (*model.Grade, error)
	Create(ctx context.Context, grade *model.Grade) error
	Update(ctx context.Context, id int, patch model.GradePatch) (*model.Grade, error)
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) List(ctx context.Context) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).Order("id ASC").Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) GetByAssignment(ctx context.Context, assignmentID int) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("id ASC").
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	grade.ID = 0
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) Update(ctx context.Context, id int, patch model.GradePatch) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&grade).Error; err != nil {
			return err
		}
		grade.Apply(patch)
		return tx.Save(&grade).Error
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}
