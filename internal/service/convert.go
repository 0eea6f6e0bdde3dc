package service

import (
	"context"
	"time"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/planner"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 内部辅助方法 ──

// Clock 当前时间来源；测试中替换为固定时间
type Clock func() time.Time

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// snapshot 同一次请求内使用的课程与作业快照
type snapshot struct {
	courses     []model.Course
	assignments []model.Assignment
}

func loadSnapshot(ctx context.Context, repo *repository.Repository) (*snapshot, error) {
	courses, err := repo.Course.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := repo.Assignment.List(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{courses: courses, assignments: assignments}, nil
}

func toSlotResponses(slots []model.ScheduleSlot) []dto.ScheduleSlotResponse {
	out := make([]dto.ScheduleSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, dto.ScheduleSlotResponse{
			Day:       s.Day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Location:  s.Location,
		})
	}
	return out
}

func toSlotModels(slots []dto.ScheduleSlotRequest) []model.ScheduleSlot {
	out := make([]model.ScheduleSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, model.ScheduleSlot{
			Day:       dto.NormalizeWeekday(s.Day),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Location:  s.Location,
		})
	}
	return out
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:         c.ID,
		Name:       c.Name,
		Instructor: c.Instructor,
		Credits:    c.Credits,
		Semester:   c.Semester,
		Color:      c.Color,
		Schedule:   toSlotResponses(c.Schedule),
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

// toAssignmentResponse 组装作业响应；课程不存在时 CourseFound=false
func toAssignmentResponse(a *model.Assignment, courses planner.CourseIndex, now time.Time) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CourseID:    a.CourseID,
		DueDate:     formatTime(a.DueDate.In(now.Location())),
		Priority:    string(a.Priority),
		Weight:      a.Weight,
		Completed:   a.Completed,
		Overdue:     planner.IsOverdue(a, now),
		DueToday:    planner.IsDueToday(a, now),
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
	if a.Grade != nil {
		g := *a.Grade
		resp.Grade = &g
	}
	if c, ok := courses.Lookup(a.CourseID); ok {
		resp.CourseFound = true
		resp.CourseName = c.Name
		resp.CourseColor = c.Color
	}
	return resp
}

func toAssignmentResponses(list []model.Assignment, courses planner.CourseIndex, now time.Time) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toAssignmentResponse(&list[i], courses, now))
	}
	return out
}

func toGradeResponse(g *model.Grade) *dto.GradeResponse {
	return &dto.GradeResponse{
		ID:           g.ID,
		CourseID:     g.CourseID,
		AssignmentID: g.AssignmentID,
		Score:        g.Score,
		Feedback:     g.Feedback,
		CreatedAt:    formatTime(g.CreatedAt),
		UpdatedAt:    formatTime(g.UpdatedAt),
	}
}

func toClassOccurrences(occ []planner.CourseOccurrence) []dto.ClassOccurrence {
	out := make([]dto.ClassOccurrence, 0, len(occ))
	for _, o := range occ {
		out = append(out, dto.ClassOccurrence{
			CourseID:   o.Course.ID,
			CourseName: o.Course.Name,
			Instructor: o.Course.Instructor,
			Color:      o.Course.Color,
			Slots:      toSlotResponses(o.Slots),
		})
	}
	return out
}
