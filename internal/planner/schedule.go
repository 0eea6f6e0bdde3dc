package planner

import (
	"time"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// WeekDays 周课表展示的工作日
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// 周课表展示的小时范围 [GridFirstHour, GridLastHour]
const (
	GridFirstHour = 7
	GridLastHour  = 21
)

// CourseOccurrence 今日课程：课程本身 + 仅属于当天的时段（投影，不修改课程记录）
type CourseOccurrence struct {
	Course model.Course
	Slots  []model.ScheduleSlot
}

// TodaySchedule 选出在 weekday 当天至少有一个时段的课程
func TodaySchedule(courses []model.Course, weekday time.Weekday) []CourseOccurrence {
	return ScheduleForDay(courses, weekday.String())
}

// ScheduleForDay 与 TodaySchedule 相同，但直接按星期名称（如 "Monday"）匹配
func ScheduleForDay(courses []model.Course, day string) []CourseOccurrence {
	var result []CourseOccurrence
	for i := range courses {
		c := courses[i]
		var slots []model.ScheduleSlot
		for _, s := range c.Schedule {
			if s.Day == day {
				slots = append(slots, s)
			}
		}
		if len(slots) == 0 {
			continue
		}
		result = append(result, CourseOccurrence{Course: c.Clone(), Slots: slots})
	}
	return result
}

// occupiesHour 时段是否覆盖整点 hour（start ≤ hour < end，只比较小时）
func occupiesHour(s model.ScheduleSlot, hour int) bool {
	startHour, _, ok := model.ParseClock(s.StartTime)
	if !ok {
		return false
	}
	endHour, _, ok := model.ParseClock(s.EndTime)
	if !ok {
		return false
	}
	return hour >= startHour && hour < endHour
}

// ClassesAt 返回 day 当天 hour 点正在上课的课程
func ClassesAt(courses []model.Course, day string, hour int) []model.Course {
	var result []model.Course
	for i := range courses {
		for _, s := range courses[i].Schedule {
			if s.Day == day && occupiesHour(s, hour) {
				result = append(result, courses[i])
				break
			}
		}
	}
	return result
}

// GridCell 周课表单元格
type GridCell struct {
	Day     string
	Courses []model.Course
}

// GridRow 周课表的一行（一个整点）
type GridRow struct {
	Hour  int
	Label string // "07:00"
	Cells []GridCell
}

// WeeklyGrid 生成周一至周五 × 07:00–21:00 的周课表
func WeeklyGrid(courses []model.Course) []GridRow {
	rows := make([]GridRow, 0, GridLastHour-GridFirstHour+1)
	for h := GridFirstHour; h <= GridLastHour; h++ {
		row := GridRow{
			Hour:  h,
			Label: time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"),
			Cells: make([]GridCell, 0, len(WeekDays)),
		}
		for _, d := range WeekDays {
			row.Cells = append(row.Cells, GridCell{Day: d, Courses: ClassesAt(courses, d, h)})
		}
		rows = append(rows, row)
	}
	return rows
}
