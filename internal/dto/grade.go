package dto

// ── 旧版成绩记录 DTO ──

// CreateGradeRequest 创建成绩记录请求
type CreateGradeRequest struct {
	CourseID     int     `json:"course_id"     binding:"required,min=1"`
	AssignmentID int     `json:"assignment_id" binding:"required,min=1"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
}

// UpdateGradeRequest 更新成绩记录请求
type UpdateGradeRequest struct {
	CourseID     *int     `json:"course_id"     binding:"omitempty,min=1"`
	AssignmentID *int     `json:"assignment_id" binding:"omitempty,min=1"`
	Score        *float64 `json:"score"`
	Feedback     *string  `json:"feedback"`
}

// GradeListRequest 成绩记录查询参数
type GradeListRequest struct {
	CourseID int `form:"course_id" binding:"omitempty,min=1"`
}

// GradeResponse 成绩记录响应
type GradeResponse struct {
	ID           int     `json:"id"`
	CourseID     int     `json:"course_id"`
	AssignmentID int     `json:"assignment_id"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
