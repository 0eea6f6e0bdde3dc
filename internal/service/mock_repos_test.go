package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[int]*model.Course
	nextID  int
	err     error // 非 nil 时所有方法返回该错误
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[int]*model.Course), nextID: 1}
}

func (m *mockCourseRepo) put(c model.Course) {
	m.courses[c.ID] = &c
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, c.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int) (*model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.courses[id]; ok {
		out := c.Clone()
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.err != nil {
		return m.err
	}
	course.ID = m.nextID
	m.nextID++
	m.put(course.Clone())
	return nil
}

func (m *mockCourseRepo) Update(_ context.Context, id int, patch model.CoursePatch) (*model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.Apply(patch)
	out := c.Clone()
	return &out, nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.courses[id]; !ok {
		return false, nil
	}
	delete(m.courses, id)
	return true, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[int]*model.Assignment
	nextID      int
	err         error
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[int]*model.Assignment), nextID: 1}
}

func (m *mockAssignmentRepo) put(a model.Assignment) {
	m.assignments[a.ID] = &a
	if a.ID >= m.nextID {
		m.nextID = a.ID + 1
	}
}

func (m *mockAssignmentRepo) List(_ context.Context) ([]model.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAssignmentRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Assignment, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []model.Assignment
	for _, a := range all {
		if a.CourseID == courseID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id int) (*model.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.assignments[id]; ok {
		out := a.Clone()
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if m.err != nil {
		return m.err
	}
	assignment.ID = m.nextID
	m.nextID++
	m.put(assignment.Clone())
	return nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, id int, patch model.AssignmentPatch) (*model.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Apply(patch)
	out := a.Clone()
	return &out, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.assignments[id]; !ok {
		return false, nil
	}
	delete(m.assignments, id)
	return true, nil
}

func (m *mockAssignmentRepo) ToggleComplete(_ context.Context, id int) (*model.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Completed = !a.Completed
	out := a.Clone()
	return &out, nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	grades map[int]*model.Grade
	nextID int
	err    error
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[int]*model.Grade), nextID: 1}
}

func (m *mockGradeRepo) List(_ context.Context) ([]model.Grade, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Grade, 0, len(m.grades))
	for _, g := range m.grades {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockGradeRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Grade, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []model.Grade
	for _, g := range all {
		if g.CourseID == courseID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) GetByAssignment(_ context.Context, assignmentID int) (*model.Grade, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, g := range m.grades {
		if g.AssignmentID == assignmentID {
			out := *g
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	if m.err != nil {
		return m.err
	}
	grade.ID = m.nextID
	m.nextID++
	g := *grade
	m.grades[g.ID] = &g
	return nil
}

func (m *mockGradeRepo) Update(_ context.Context, id int, patch model.GradePatch) (*model.Grade, error) {
	if m.err != nil {
		return nil, m.err
	}
	g, ok := m.grades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	g.Apply(patch)
	out := *g
	return &out, nil
}

// ── 测试辅助 ──

type mockRepos struct {
	courses     *mockCourseRepo
	assignments *mockAssignmentRepo
	grades      *mockGradeRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		courses:     newMockCourseRepo(),
		assignments: newMockAssignmentRepo(),
		grades:      newMockGradeRepo(),
	}
	return &repository.Repository{
		Course:     m.courses,
		Assignment: m.assignments,
		Grade:      m.grades,
	}, m
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
