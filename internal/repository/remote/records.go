package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// ── 表与字段映射 ──

const (
	courseTable     = "courses_c"
	assignmentTable = "assignments_c"
	gradeTable      = "grades_c"
)

var (
	courseFields = []string{
		"Id", "Name", "instructor_c", "credits_c", "semester_c", "color_c", "schedule_c",
		"CreatedOn", "ModifiedOn",
	}
	assignmentFields = []string{
		"Id", "Name", "description_c", "course_id_c", "due_date_c", "priority_c",
		"weight_c", "completed_c", "grade_c", "CreatedOn", "ModifiedOn",
	}
	gradeFields = []string{
		"Id", "course_id_c", "assignment_id_c", "score_c", "feedback_c",
		"CreatedOn", "ModifiedOn",
	}
)

// ── 宽松字段类型 ──

// lookupID 关联字段：服务端可能返回数字、数字字符串或 {"Id": n, "Name": ...}
type lookupID int

func (l *lookupID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = 0
		return nil
	}
	switch b[0] {
	case '{':
		var obj struct {
			ID int `json:"Id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*l = lookupID(obj.ID)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = 0
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("无法解析关联 ID %q: %w", s, err)
		}
		*l = lookupID(n)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*l = lookupID(int(f))
		return nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime 兼容服务端返回的多种时间格式
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*t = flexTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = flexTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("无法解析时间 %q", s)
}

// ── Course ──

type courseRecord struct {
	ID         int      `json:"Id"`
	Name       string   `json:"Name"`
	Instructor string   `json:"instructor_c"`
	Credits    float64  `json:"credits_c"`
	Semester   string   `json:"semester_c"`
	Color      string   `json:"color_c"`
	Schedule   string   `json:"schedule_c"`
	CreatedOn  flexTime `json:"CreatedOn"`
	ModifiedOn flexTime `json:"ModifiedOn"`
}

// toModel 转换为领域模型；schedule_c 不是合法 JSON 时返回空课表与错误
func (r courseRecord) toModel() (model.Course, error) {
	c := model.Course{
		ID:         r.ID,
		Name:       r.Name,
		Instructor: r.Instructor,
		Credits:    int(r.Credits),
		Semester:   r.Semester,
		Color:      r.Color,
		Schedule:   []model.ScheduleSlot{},
	}
	c.CreatedAt = time.Time(r.CreatedOn)
	c.UpdatedAt = time.Time(r.ModifiedOn)

	slots, err := decodeSchedule(r.Schedule)
	if err != nil {
		return c, err
	}
	c.Schedule = slots
	return c, nil
}

func decodeSchedule(text string) ([]model.ScheduleSlot, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return []model.ScheduleSlot{}, nil
	}
	var slots []model.ScheduleSlot
	if err := json.Unmarshal([]byte(text), &slots); err != nil {
		return []model.ScheduleSlot{}, fmt.Errorf("schedule_c 解析失败: %w", err)
	}
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	return slots, nil
}

func encodeSchedule(slots []model.ScheduleSlot) string {
	if slots == nil {
		slots = []model.ScheduleSlot{}
	}
	raw, _ := json.Marshal(slots)
	return string(raw)
}

// courseCreate 新建记录只携带非空字段
type courseCreate struct {
	Name       string `json:"Name,omitempty"`
	Instructor string `json:"instructor_c,omitempty"`
	Credits    int    `json:"credits_c,omitempty"`
	Semester   string `json:"semester_c,omitempty"`
	Color      string `json:"color_c,omitempty"`
	Schedule   string `json:"schedule_c,omitempty"`
}

type courseUpdate struct {
	ID         int    `json:"Id"`
	Name       string `json:"Name"`
	Instructor string `json:"instructor_c"`
	Credits    int    `json:"credits_c"`
	Semester   string `json:"semester_c"`
	Color      string `json:"color_c"`
	Schedule   string `json:"schedule_c"`
}

func newCourseCreate(c *model.Course) courseCreate {
	return courseCreate{
		Name:       c.Name,
		Instructor: c.Instructor,
		Credits:    c.Credits,
		Semester:   c.Semester,
		Color:      c.Color,
		Schedule:   encodeSchedule(c.Schedule),
	}
}

func newCourseUpdate(c *model.Course) courseUpdate {
	return courseUpdate{
		ID:         c.ID,
		Name:       c.Name,
		Instructor: c.Instructor,
		Credits:    c.Credits,
		Semester:   c.Semester,
		Color:      c.Color,
		Schedule:   encodeSchedule(c.Schedule),
	}
}

// ── Assignment ──

type assignmentRecord struct {
	ID          int      `json:"Id"`
	Title       string   `json:"Name"`
	Description string   `json:"description_c"`
	CourseID    lookupID `json:"course_id_c"`
	DueDate     flexTime `json:"due_date_c"`
	Priority    string   `json:"priority_c"`
	Weight      float64  `json:"weight_c"`
	Completed   bool     `json:"completed_c"`
	Grade       *float64 `json:"grade_c"`
	CreatedOn   flexTime `json:"CreatedOn"`
	ModifiedOn  flexTime `json:"ModifiedOn"`
}

func (r assignmentRecord) toModel() model.Assignment {
	a := model.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CourseID:    int(r.CourseID),
		DueDate:     time.Time(r.DueDate),
		Priority:    model.Priority(strings.ToLower(strings.TrimSpace(r.Priority))),
		Weight:      r.Weight,
		Completed:   r.Completed,
	}
	if r.Grade != nil {
		g := *r.Grade
		a.Grade = &g
	}
	a.CreatedAt = time.Time(r.CreatedOn)
	a.UpdatedAt = time.Time(r.ModifiedOn)
	return a
}

type assignmentCreate struct {
	Title       string  `json:"Name,omitempty"`
	Description string  `json:"description_c,omitempty"`
	CourseID    int     `json:"course_id_c,omitempty"`
	DueDate     string  `json:"due_date_c,omitempty"`
	Priority    string  `json:"priority_c,omitempty"`
	Weight      float64 `json:"weight_c,omitempty"`
	Completed   bool    `json:"completed_c"`
}

// assignmentUpdate grade_c 不带 omitempty：未评分时显式写 null
type assignmentUpdate struct {
	ID          int      `json:"Id"`
	Title       string   `json:"Name"`
	Description string   `json:"description_c"`
	CourseID    int      `json:"course_id_c"`
	DueDate     string   `json:"due_date_c"`
	Priority    string   `json:"priority_c"`
	Weight      float64  `json:"weight_c"`
	Completed   bool     `json:"completed_c"`
	Grade       *float64 `json:"grade_c"`
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func newAssignmentCreate(a *model.Assignment) assignmentCreate {
	return assignmentCreate{
		Title:       a.Title,
		Description: a.Description,
		CourseID:    a.CourseID,
		DueDate:     formatDue(a.DueDate),
		Priority:    string(a.Priority),
		Weight:      a.Weight,
		Completed:   a.Completed,
	}
}

func newAssignmentUpdate(a *model.Assignment) assignmentUpdate {
	return assignmentUpdate{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CourseID:    a.CourseID,
		DueDate:     formatDue(a.DueDate),
		Priority:    string(a.Priority),
		Weight:      a.Weight,
		Completed:   a.Completed,
		Grade:       a.Grade,
	}
}

// ── Grade ──

type gradeRecord struct {
	ID           int      `json:"Id"`
	CourseID     lookupID `json:"course_id_c"`
	AssignmentID lookupID `json:"assignment_id_c"`
	Score        float64  `json:"score_c"`
	Feedback     string   `json:"feedback_c"`
	CreatedOn    flexTime `json:"CreatedOn"`
	ModifiedOn   flexTime `json:"ModifiedOn"`
}

func (r gradeRecord) toModel() model.Grade {
	g := model.Grade{
		ID:           r.ID,
		CourseID:     int(r.CourseID),
		AssignmentID: int(r.AssignmentID),
		Score:        r.Score,
		Feedback:     r.Feedback,
	}
	g.CreatedAt = time.Time(r.CreatedOn)
	g.UpdatedAt = time.Time(r.ModifiedOn)
	return g
}

type gradeWrite struct {
	ID           int     `json:"Id,omitempty"`
	CourseID     int     `json:"course_id_c"`
	AssignmentID int     `json:"assignment_id_c"`
	Score        float64 `json:"score_c"`
	Feedback     string  `json:"feedback_c"`
}

func newGradeWrite(g *model.Grade) gradeWrite {
	return gradeWrite{
		ID:           g.ID,
		CourseID:     g.CourseID,
		AssignmentID: g.AssignmentID,
		Score:        g.Score,
		Feedback:     g.Feedback,
	}
}
