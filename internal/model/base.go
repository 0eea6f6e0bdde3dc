package model

import (
	"strings"
	"time"
)

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Touch 刷新时间戳；首次写入时同时设置 CreatedAt
func (m *BaseModel) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// ParseClock 解析 "HH:MM" 时间字符串，返回小时与分钟。
// 时、分都必须是两位数字；不合法的输入返回 ok=false，调用方自行决定如何降级。
func ParseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	// time.Parse 的 "15" 也接受一位小时，先卡住格式
	if len(s) != len("15:04") || s[2] != ':' {
		return 0, 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
