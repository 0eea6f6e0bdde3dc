package planner

import (
	"sort"
	"time"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// DefaultUpcomingLimit 仪表盘"即将截止"列表的展示条数（展示策略，不是数据上限）
const DefaultUpcomingLimit = 5

// IsOverdue 未完成且截止时间早于 now
func IsOverdue(a *model.Assignment, now time.Time) bool {
	return !a.Completed && a.DueDate.Before(now)
}

// IsUpcoming 未完成且截止时间不早于 now
func IsUpcoming(a *model.Assignment, now time.Time) bool {
	return !a.Completed && !a.DueDate.Before(now)
}

// IsDueToday 截止日期与 now 处于同一自然日（按 now 所在时区比较），不看完成状态
func IsDueToday(a *model.Assignment, now time.Time) bool {
	due := a.DueDate.In(now.Location())
	y1, m1, d1 := due.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// UpcomingAssignments 未完成且未过期的作业，按截止时间升序，截取前 limit 条。
// limit ≤ 0 时不截断。
func UpcomingAssignments(assignments []model.Assignment, now time.Time, limit int) []model.Assignment {
	var out []model.Assignment
	for i := range assignments {
		if IsUpcoming(&assignments[i], now) {
			out = append(out, assignments[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OverdueAssignments 已逾期作业，按截止时间升序
func OverdueAssignments(assignments []model.Assignment, now time.Time) []model.Assignment {
	var out []model.Assignment
	for i := range assignments {
		if IsOverdue(&assignments[i], now) {
			out = append(out, assignments[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// DueToday 今日截止的作业，保持原顺序
func DueToday(assignments []model.Assignment, now time.Time) []model.Assignment {
	var out []model.Assignment
	for i := range assignments {
		if IsDueToday(&assignments[i], now) {
			out = append(out, assignments[i])
		}
	}
	return out
}

// Summary 仪表盘统计
type Summary struct {
	TotalCourses     int
	TotalAssignments int
	Completed        int
	Overdue          int
	Upcoming         int
	DueToday         int
	CompletionRate   int // 百分比，四舍五入；无作业时为 0
}

// Summarize 统计课程与作业数量
func Summarize(courses []model.Course, assignments []model.Assignment, now time.Time) Summary {
	s := Summary{
		TotalCourses:     len(courses),
		TotalAssignments: len(assignments),
	}
	for i := range assignments {
		a := &assignments[i]
		if a.Completed {
			s.Completed++
		}
		if IsOverdue(a, now) {
			s.Overdue++
		}
		if IsUpcoming(a, now) {
			s.Upcoming++
		}
		if IsDueToday(a, now) {
			s.DueToday++
		}
	}
	if s.TotalAssignments > 0 {
		s.CompletionRate = roundHalfUp(float64(s.Completed) / float64(s.TotalAssignments) * 100)
	}
	return s
}
