package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	List(ctx context.Context) ([]model.Assignment, error)
	ListByCourse(ctx context.Context, courseID int) ([]model.Assignment, error)
	GetByID(ctx context.Context, id int) (*model.Assignment, error)
	Create(ctx context.Context, assignment *model.Assignment) error
	Update(ctx context.Context, id int, patch model.AssignmentPatch) (*model.Assignment, error)
	Delete(ctx context.Context, id int) (bool, error)
	// ToggleComplete 翻转完成状态并返回最新记录
	ToggleComplete(ctx context.Context, id int) (*model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) List(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) GetByID(ctx context.Context, id int) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	assignment.ID = 0
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) Update(ctx context.Context, id int, patch model.AssignmentPatch) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&assignment).Error; err != nil {
			return err
		}
		assignment.Apply(patch)
		// Save 会写回全部字段，包括置空的 grade
		return tx.Save(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Assignment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepo) ToggleComplete(ctx context.Context, id int) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Assignment{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"completed":  gorm.Expr("NOT completed"),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
