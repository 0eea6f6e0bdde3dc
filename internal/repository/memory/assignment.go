package memory

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// assignmentTable AssignmentRepository 的内存实现
type assignmentTable struct {
	s *Store
}

func (t *assignmentTable) indexOf(id int) int {
	for i := range t.s.assignments {
		if t.s.assignments[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *assignmentTable) List(_ context.Context) ([]model.Assignment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	result := make([]model.Assignment, 0, len(t.s.assignments))
	for _, a := range t.s.assignments {
		result = append(result, a.Clone())
	}
	return result, nil
}

func (t *assignmentTable) ListByCourse(_ context.Context, courseID int) ([]model.Assignment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	result := make([]model.Assignment, 0)
	for _, a := range t.s.assignments {
		if a.CourseID == courseID {
			result = append(result, a.Clone())
		}
	}
	return result, nil
}

func (t *assignmentTable) GetByID(_ context.Context, id int) (*model.Assignment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	a := t.s.assignments[i].Clone()
	return &a, nil
}

func (t *assignmentTable) Create(_ context.Context, assignment *model.Assignment) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	assignment.ID = t.s.nextAssignmentID
	t.s.nextAssignmentID++
	assignment.Touch(t.s.now())

	t.s.assignments = append(t.s.assignments, assignment.Clone())
	return nil
}

func (t *assignmentTable) Update(_ context.Context, id int, patch model.AssignmentPatch) (*model.Assignment, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	t.s.assignments[i].Apply(patch)
	t.s.assignments[i].Touch(t.s.now())

	a := t.s.assignments[i].Clone()
	return &a, nil
}

func (t *assignmentTable) Delete(_ context.Context, id int) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t.s.assignments = append(t.s.assignments[:i], t.s.assignments[i+1:]...)
	return true, nil
}

func (t *assignmentTable) ToggleComplete(_ context.Context, id int) (*model.Assignment, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	t.s.assignments[i].Completed = !t.s.assignments[i].Completed
	t.s.assignments[i].Touch(t.s.now())

	a := t.s.assignments[i].Clone()
	return &a, nil
}
