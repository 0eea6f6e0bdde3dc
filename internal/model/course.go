package model

import "gorm.io/datatypes"

// ScheduleSlot 课程的单个上课时段（以 JSON 形式内嵌在 courses.schedule 中）
type ScheduleSlot struct {
	Day       string `json:"day"`        // Monday … Friday（Saturday/Sunday 亦可保存）
	StartTime string `json:"start_time"` // "09:00"
	EndTime   string `json:"end_time"`   // "10:30"
	Location  string `json:"location"`
}

// Course 课程表，对应 courses
type Course struct {
	ID         int                               `gorm:"primaryKey;autoIncrement"                json:"id"`
	Name       string                            `gorm:"type:varchar(120);not null"              json:"name"`
	Instructor string                            `gorm:"type:varchar(120);not null;default:''"   json:"instructor"`
	Credits    int                               `gorm:"not null;default:3"                      json:"credits"`
	Semester   string                            `gorm:"type:varchar(50);not null;default:''"    json:"semester"`
	Color      string                            `gorm:"type:varchar(20);not null;default:''"    json:"color"`
	Schedule   datatypes.JSONSlice[ScheduleSlot] `gorm:"not null"                                json:"schedule"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Clone 返回不共享 Schedule 底层数组的副本
func (c Course) Clone() Course {
	out := c
	if c.Schedule != nil {
		out.Schedule = make(datatypes.JSONSlice[ScheduleSlot], len(c.Schedule))
		copy(out.Schedule, c.Schedule)
	}
	return out
}

// CoursePatch 课程的部分更新；nil 字段表示保持原值
type CoursePatch struct {
	Name       *string
	Instructor *string
	Credits    *int
	Semester   *string
	Color      *string
	Schedule   *[]ScheduleSlot
}

// Apply 将补丁浅合并到课程上，ID 永远保持不变
func (c *Course) Apply(p CoursePatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Instructor != nil {
		c.Instructor = *p.Instructor
	}
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
	if p.Semester != nil {
		c.Semester = *p.Semester
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Schedule != nil {
		slots := make(datatypes.JSONSlice[ScheduleSlot], len(*p.Schedule))
		copy(slots, *p.Schedule)
		c.Schedule = slots
	}
}
