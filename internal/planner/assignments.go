package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// StatusFilter 作业完成状态筛选
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// SortKey 作业排序字段
type SortKey string

const (
	SortByDueDate  SortKey = "dueDate"
	SortByPriority SortKey = "priority"
	SortByCourse   SortKey = "course"
)

// AllCourses 课程筛选值 "all" 对应的 CourseID（合法 ID 均为正数）
const AllCourses = 0

// AssignmentFilter 作业筛选条件
type AssignmentFilter struct {
	CourseID int // AllCourses 表示不过滤
	Status   StatusFilter
}

// ParseAssignmentFilter 解析查询参数：course 为 "all" 或课程 ID，status 为 all|completed|pending。
// 空字符串等同于 "all"。
func ParseAssignmentFilter(course, status string) (AssignmentFilter, error) {
	f := AssignmentFilter{CourseID: AllCourses, Status: StatusAll}

	course = strings.TrimSpace(course)
	if course != "" && course != "all" {
		id, err := strconv.Atoi(course)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid course filter %q", course)
		}
		f.CourseID = id
	}

	switch StatusFilter(strings.TrimSpace(status)) {
	case "", StatusAll:
	case StatusCompleted:
		f.Status = StatusCompleted
	case StatusPending:
		f.Status = StatusPending
	default:
		return f, fmt.Errorf("invalid status filter %q", status)
	}
	return f, nil
}

// priorityRank 优先级排序权重：high < medium < low，未知值排在最后
func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityMedium:
		return 1
	case model.PriorityLow:
		return 2
	default:
		return 3
	}
}

// Match 判断作业是否满足筛选条件
func (f AssignmentFilter) Match(a *model.Assignment) bool {
	if f.CourseID != AllCourses && a.CourseID != f.CourseID {
		return false
	}
	switch f.Status {
	case StatusCompleted:
		return a.Completed
	case StatusPending:
		return !a.Completed
	}
	return true
}

// FilterAssignments 先筛选再按 key 升序稳定排序，返回新切片，不修改入参。
// 键相同的作业保持原有相对顺序；未知 key 不排序。
func FilterAssignments(assignments []model.Assignment, filter AssignmentFilter, key SortKey) []model.Assignment {
	out := make([]model.Assignment, 0, len(assignments))
	for i := range assignments {
		if filter.Match(&assignments[i]) {
			out = append(out, assignments[i])
		}
	}
	SortAssignments(out, key)
	return out
}

// SortAssignments 原地稳定排序
func SortAssignments(assignments []model.Assignment, key SortKey) {
	var less func(a, b *model.Assignment) bool
	switch key {
	case SortByDueDate:
		less = func(a, b *model.Assignment) bool { return a.DueDate.Before(b.DueDate) }
	case SortByPriority:
		less = func(a, b *model.Assignment) bool { return priorityRank(a.Priority) < priorityRank(b.Priority) }
	case SortByCourse:
		less = func(a, b *model.Assignment) bool { return a.CourseID < b.CourseID }
	default:
		return
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return less(&assignments[i], &assignments[j])
	})
}

// CourseIndex 按 ID 索引课程，用于给作业补充课程信息
type CourseIndex map[int]model.Course

// IndexCourses 构建课程索引
func IndexCourses(courses []model.Course) CourseIndex {
	idx := make(CourseIndex, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// Lookup 查找作业所属课程；课程已被删除（悬空 CourseID）时返回 ok=false
func (idx CourseIndex) Lookup(courseID int) (model.Course, bool) {
	c, ok := idx[courseID]
	return c, ok
}
