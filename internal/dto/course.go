package dto

// ── 课程模块 DTO ──

// ScheduleSlotRequest 上课时段
type ScheduleSlotRequest struct {
	Day       string `json:"day"        binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,clock"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required,clock"` // "10:30"
	Location  string `json:"location"   binding:"max=120"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name       string                `json:"name"       binding:"required,max=120"`
	Instructor string                `json:"instructor" binding:"max=120"`
	Credits    int                   `json:"credits"    binding:"required,min=1"`
	Semester   string                `json:"semester"   binding:"max=50"`
	Color      string                `json:"color"      binding:"max=20"`
	Schedule   []ScheduleSlotRequest `json:"schedule"   binding:"omitempty,dive"`
}

// UpdateCourseRequest 更新课程请求；未出现的字段保持原值
type UpdateCourseRequest struct {
	Name       *string                `json:"name"       binding:"omitempty,min=1,max=120"`
	Instructor *string                `json:"instructor" binding:"omitempty,max=120"`
	Credits    *int                   `json:"credits"    binding:"omitempty,min=1"`
	Semester   *string                `json:"semester"   binding:"omitempty,max=50"`
	Color      *string                `json:"color"      binding:"omitempty,max=20"`
	Schedule   *[]ScheduleSlotRequest `json:"schedule"   binding:"omitempty,dive"`
}

// ScheduleSlotResponse 上课时段
type ScheduleSlotResponse struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID         int                    `json:"id"`
	Name       string                 `json:"name"`
	Instructor string                 `json:"instructor"`
	Credits    int                    `json:"credits"`
	Semester   string                 `json:"semester"`
	Color      string                 `json:"color"`
	Schedule   []ScheduleSlotResponse `json:"schedule"`
	CreatedAt  string                 `json:"created_at"`
	UpdatedAt  string                 `json:"updated_at"`
}
