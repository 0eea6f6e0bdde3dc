package model

// Grade 旧版成绩记录表，对应 grades
//
// 新版成绩直接记在 Assignment.Grade 上；此表仅为兼容早期数据保留，
// 不参与 GPA 计算。
type Grade struct {
	ID           int     `gorm:"primaryKey;autoIncrement"        json:"id"`
	CourseID     int     `gorm:"not null;index"                  json:"course_id"`
	AssignmentID int     `gorm:"not null;index"                  json:"assignment_id"`
	Score        float64 `gorm:"not null"                        json:"score"`
	Feedback     string  `gorm:"type:text;not null;default:''"   json:"feedback"`
	BaseModel
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// GradePatch 成绩记录的部分更新
type GradePatch struct {
	CourseID     *int
	AssignmentID *int
	Score        *float64
	Feedback     *string
}

// Apply 将补丁浅合并到成绩记录上
func (g *Grade) Apply(p GradePatch) {
	if p.CourseID != nil {
		g.CourseID = *p.CourseID
	}
	if p.AssignmentID != nil {
		g.AssignmentID = *p.AssignmentID
	}
	if p.Score != nil {
		g.Score = *p.Score
	}
	if p.Feedback != nil {
		g.Feedback = *p.Feedback
	}
}
