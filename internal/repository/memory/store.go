// Package memory 进程内存储驱动：用注入的种子数据构造，可随时 Reset 回种子状态。
//
// 主要用于本地演示和测试；不提供持久化。
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// Seed 初始数据
type Seed struct {
	Courses     []model.Course     `json:"courses"`
	Assignments []model.Assignment `json:"assignments"`
	Grades      []model.Grade      `json:"grades"`
}

// LoadSeed 从 JSON 文件读取种子数据
func LoadSeed(path string) (Seed, error) {
	var seed Seed
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("读取种子文件失败: %w", err)
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("解析种子文件失败: %w", err)
	}
	return seed, nil
}

// Store 内存数据集合
//
// ID 分配：每张表一个单调递增计数器，初值为种子中最大 ID + 1；
// 删除最大 ID 的记录后也不会复用该 ID。Reset 后计数器按种子重新计算。
type Store struct {
	mu   sync.RWMutex
	seed Seed
	now  func() time.Time

	courses     []model.Course
	assignments []model.Assignment
	grades      []model.Grade

	nextCourseID     int
	nextAssignmentID int
	nextGradeID      int
}

// Option Store 构造选项
type Option func(*Store)

// WithClock 替换时间来源（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New 用种子数据创建 Store；种子会被深拷贝，调用方后续修改不影响 Store
func New(seed Seed, opts ...Option) *Store {
	s := &Store{seed: cloneSeed(seed), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset 丢弃所有变更，恢复到种子状态
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := cloneSeed(s.seed)
	s.courses = fresh.Courses
	s.assignments = fresh.Assignments
	s.grades = fresh.Grades

	s.nextCourseID = 1
	for _, c := range s.courses {
		if c.ID >= s.nextCourseID {
			s.nextCourseID = c.ID + 1
		}
	}
	s.nextAssignmentID = 1
	for _, a := range s.assignments {
		if a.ID >= s.nextAssignmentID {
			s.nextAssignmentID = a.ID + 1
		}
	}
	s.nextGradeID = 1
	for _, g := range s.grades {
		if g.ID >= s.nextGradeID {
			s.nextGradeID = g.ID + 1
		}
	}
}

// Repository 以 Repository 聚合的形式暴露 Store
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Course:     &courseTable{s: s},
		Assignment: &assignmentTable{s: s},
		Grade:      &gradeTable{s: s},
	}
}

func cloneSeed(seed Seed) Seed {
	out := Seed{
		Courses:     make([]model.Course, 0, len(seed.Courses)),
		Assignments: make([]model.Assignment, 0, len(seed.Assignments)),
		Grades:      make([]model.Grade, 0, len(seed.Grades)),
	}
	for _, c := range seed.Courses {
		out.Courses = append(out.Courses, c.Clone())
	}
	for _, a := range seed.Assignments {
		out.Assignments = append(out.Assignments, a.Clone())
	}
	out.Grades = append(out.Grades, seed.Grades...)
	return out
}
