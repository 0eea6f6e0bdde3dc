package memory

import (
	"context"

	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// courseTable CourseRepository 的内存实现
type courseTable struct {
	s *Store
}

func (t *courseTable) indexOf(id int) int {
	for i := range t.s.courses {
		if t.s.courses[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *courseTable) List(_ context.Context) ([]model.Course, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	result := make([]model.Course, 0, len(t.s.courses))
	for _, c := range t.s.courses {
		result = append(result, c.Clone())
	}
	return result, nil
}

func (t *courseTable) GetByID(_ context.Context, id int) (*model.Course, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	c := t.s.courses[i].Clone()
	return &c, nil
}

func (t *courseTable) Create(_ context.Context, course *model.Course) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	course.ID = t.s.nextCourseID
	t.s.nextCourseID++
	if course.Schedule == nil {
		course.Schedule = []model.ScheduleSlot{}
	}
	course.Touch(t.s.now())

	t.s.courses = append(t.s.courses, course.Clone())
	return nil
}

func (t *courseTable) Update(_ context.Context, id int, patch model.CoursePatch) (*model.Course, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	t.s.courses[i].Apply(patch)
	t.s.courses[i].Touch(t.s.now())

	c := t.s.courses[i].Clone()
	return &c, nil
}

func (t *courseTable) Delete(_ context.Context, id int) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t.s.courses = append(t.s.courses[:i], t.s.courses[i+1:]...)
	return true, nil
}
