package dto

// ── 派生视图 DTO ──

// CourseGradeResponse 单门课程的成绩概况
// 未评分课程的 grade / letter / standing / grade_point 均为空
type CourseGradeResponse struct {
	CourseID    int      `json:"course_id"`
	CourseName  string   `json:"course_name"`
	Color       string   `json:"color"`
	Credits     int      `json:"credits"`
	Grade       *int     `json:"grade"`
	Letter      string   `json:"letter,omitempty"`
	Standing    string   `json:"standing,omitempty"`
	GradePoint  *float64 `json:"grade_point"`
	GradedCount int      `json:"graded_count"`
	TotalCount  int      `json:"total_count"`
}

// GradeReportResponse 成绩页：各课程成绩与总 GPA
type GradeReportResponse struct {
	Courses []CourseGradeResponse `json:"courses"`
	GPA     *float64              `json:"gpa"`               // 无已评分课程时为 null
	GPAText string                `json:"gpa_text,omitempty"` // "3.43"
}

// DashboardStats 仪表盘统计
type DashboardStats struct {
	TotalCourses     int `json:"total_courses"`
	TotalAssignments int `json:"total_assignments"`
	Completed        int `json:"completed"`
	Pending          int `json:"pending"`
	Overdue          int `json:"overdue"`
	Upcoming         int `json:"upcoming"`
	DueToday         int `json:"due_today"`
	CompletionRate   int `json:"completion_rate"`
}

// DashboardResponse 仪表盘
type DashboardResponse struct {
	Now      string               `json:"now"`
	Stats    DashboardStats       `json:"stats"`
	Today    []ClassOccurrence    `json:"today"`
	Upcoming []AssignmentResponse `json:"upcoming"`
	Overdue  []AssignmentResponse `json:"overdue"`
}

// ClassOccurrence 某天的一门课程及其当天时段
type ClassOccurrence struct {
	CourseID   int                    `json:"course_id"`
	CourseName string                 `json:"course_name"`
	Instructor string                 `json:"instructor"`
	Color      string                 `json:"color"`
	Slots      []ScheduleSlotResponse `json:"slots"`
}

// TodayRequest 今日课程查询参数；day 为空时取当前日期
type TodayRequest struct {
	Day string `form:"day" binding:"omitempty,weekday"`
}

// TodayResponse 今日课程
type TodayResponse struct {
	Day     string            `json:"day"`
	Classes []ClassOccurrence `json:"classes"`
}

// WeekCell 周课表单元格
type WeekCell struct {
	Day     string        `json:"day"`
	Courses []CourseBrief `json:"courses"`
}

// WeekRow 周课表的一行（一个整点）
type WeekRow struct {
	Hour  int        `json:"hour"`
	Label string     `json:"label"`
	Cells []WeekCell `json:"cells"`
}

// WeekResponse 周课表
type WeekResponse struct {
	Days []string  `json:"days"`
	Rows []WeekRow `json:"rows"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ImportCalendarResponse 日历导入结果
type ImportCalendarResponse struct {
	Created  []CourseResponse `json:"created"`
	Skipped  int              `json:"skipped"`
	Warnings []string         `json:"warnings,omitempty"`
}
