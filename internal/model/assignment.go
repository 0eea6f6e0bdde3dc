package model

import "time"

// Priority 作业优先级
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Assignment 作业表，对应 assignments
type Assignment struct {
	ID          int       `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Title       string    `gorm:"type:varchar(200);not null"                   json:"title"`
	Description string    `gorm:"type:text;not null;default:''"                json:"description"`
	CourseID    int       `gorm:"not null;index"                               json:"course_id"` // 不做外键约束，课程删除后可能悬空
	DueDate     time.Time `gorm:"not null;index"                               json:"due_date"`
	Priority    Priority  `gorm:"type:varchar(10);not null;default:'medium'"   json:"priority"`
	Weight      float64   `gorm:"not null;default:0"                           json:"weight"` // 课程内占比（百分比）
	Completed   bool      `gorm:"not null;default:false"                       json:"completed"`
	Grade       *float64  `json:"grade"` // nil 表示未评分
	BaseModel
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// Graded 是否已评分
func (a Assignment) Graded() bool { return a.Grade != nil }

// Clone 返回不共享 Grade 指针的副本
func (a Assignment) Clone() Assignment {
	out := a
	if a.Grade != nil {
		g := *a.Grade
		out.Grade = &g
	}
	return out
}

// ResetProgress 新建作业一律从未完成、未评分开始，忽略调用方传入的值
func (a *Assignment) ResetProgress() {
	a.Completed = false
	a.Grade = nil
}

// AssignmentPatch 作业的部分更新；nil 字段表示保持原值
type AssignmentPatch struct {
	Title       *string
	Description *string
	CourseID    *int
	DueDate     *time.Time
	Priority    *Priority
	Weight      *float64
	Completed   *bool
	Grade       *float64
	ClearGrade  bool // 将成绩重置为未评分（优先于 Grade）
}

// Apply 将补丁浅合并到作业上，ID 永远保持不变
func (a *Assignment) Apply(p AssignmentPatch) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.CourseID != nil {
		a.CourseID = *p.CourseID
	}
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Weight != nil {
		a.Weight = *p.Weight
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
	switch {
	case p.ClearGrade:
		a.Grade = nil
	case p.Grade != nil:
		g := *p.Grade
		a.Grade = &g
	}
}
