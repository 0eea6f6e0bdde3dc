package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
//
// 各存储驱动（GORM / memory / remote）都提供同一组接口，
// 记录不存在时统一返回 gorm.ErrRecordNotFound，由 Service 层转换为业务错误。
type Repository struct {
	Course     CourseRepository
	Assignment AssignmentRepository
	Grade      GradeRepository
}

// NewRepository 创建基于 GORM 的 Repository 聚合（postgres / sqlite 共用）
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course:     NewCourseRepo(db),
		Assignment: NewAssignmentRepo(db),
		Grade:      NewGradeRepo(db),
	}
}
