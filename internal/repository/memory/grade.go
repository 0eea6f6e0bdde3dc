package memory

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// gradeTable GradeRepository 的内存实现
type gradeTable struct {
	s *Store
}

func (t *gradeTable) List(_ context.Context) ([]model.Grade, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	result := make([]model.Grade, len(t.s.grades))
	copy(result, t.s.grades)
	return result, nil
}

func (t *gradeTable) ListByCourse(_ context.Context, courseID int) ([]model.Grade, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	result := make([]model.Grade, 0)
	for _, g := range t.s.grades {
		if g.CourseID == courseID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (t *gradeTable) GetByAssignment(_ context.Context, assignmentID int) (*model.Grade, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, g := range t.s.grades {
		if g.AssignmentID == assignmentID {
			out := g
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (t *gradeTable) Create(_ context.Context, grade *model.Grade) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	grade.ID = t.s.nextGradeID
	t.s.nextGradeID++
	grade.Touch(t.s.now())

	t.s.grades = append(t.s.grades, *grade)
	return nil
}

func (t *gradeTable) Update(_ context.Context, id int, patch model.GradePatch) (*model.Grade, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for i := range t.s.grades {
		if t.s.grades[i].ID != id {
			continue
		}
		t.s.grades[i].Apply(patch)
		t.s.grades[i].Touch(t.s.now())
		out := t.s.grades[i]
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}
