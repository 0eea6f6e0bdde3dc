package dto

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
// 新作业一律未完成、未评分，请求中无对应字段
type CreateAssignmentRequest struct {
	Title       string  `json:"title"       binding:"required,max=200"`
	Description string  `json:"description"`
	CourseID    int     `json:"course_id"   binding:"required,min=1"`
	DueDate     string  `json:"due_date"    binding:"required,duedate"` // RFC3339 或 "2024-03-15T23:59"
	Priority    string  `json:"priority"    binding:"required,oneof=low medium high"`
	Weight      float64 `json:"weight"`
}

// UpdateAssignmentRequest 更新作业请求；未出现的字段保持原值
type UpdateAssignmentRequest struct {
	Title       *string  `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	CourseID    *int     `json:"course_id"   binding:"omitempty,min=1"`
	DueDate     *string  `json:"due_date"    binding:"omitempty,duedate"`
	Priority    *string  `json:"priority"    binding:"omitempty,oneof=low medium high"`
	Weight      *float64 `json:"weight"`
	Completed   *bool    `json:"completed"`
	Grade       *float64 `json:"grade"`
	ClearGrade  bool     `json:"clear_grade"` // 置为未评分，优先于 grade
}

// AssignmentListRequest 作业列表查询参数
// sort 为未知值时保持原顺序
type AssignmentListRequest struct {
	CourseID string `form:"course_id"` // "all" 或课程 ID
	Status   string `form:"status" binding:"omitempty,oneof=all completed pending"`
	Sort     string `form:"sort"`
}

// AssignmentResponse 作业信息响应
type AssignmentResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CourseID    int      `json:"course_id"`
	CourseName  string   `json:"course_name"`  // 课程不存在时为空
	CourseFound bool     `json:"course_found"` // 课程已被删除时为 false
	CourseColor string   `json:"course_color,omitempty"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Weight      float64  `json:"weight"`
	Completed   bool     `json:"completed"`
	Grade       *float64 `json:"grade"`
	Overdue     bool     `json:"overdue"`
	DueToday    bool     `json:"due_today"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
