package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	List(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	// Update 浅合并 patch 后返回合并结果
	Update(ctx context.Context, id int, patch model.CoursePatch) (*model.Course, error)
	// Delete 记录不存在时返回 false，不视为错误
	Delete(ctx context.Context, id int) (bool, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByID(ctx context.Context, id int) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	// ID 由数据库自增分配
	course.ID = 0
	if course.Schedule == nil {
		course.Schedule = []model.ScheduleSlot{}
	}
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) Update(ctx context.Context, id int, patch model.CoursePatch) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&course).Error; err != nil {
			return err
		}
		course.Apply(patch)
		return tx.Save(&course).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Delete(ctx context.Context, id int) (bool, error) {
	// 硬删除；不级联删除引用该课程的作业
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Course{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
