package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// ── 自定义校验标签 ──
//
//	clock    "HH:MM" 24 小时制
//	weekday  英文星期全称（Monday … Sunday，大小写不敏感）
//	duedate  ParseDueDate 可解析的时间字符串

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NormalizeWeekday 将星期名称规范为首字母大写形式；无法识别时原样返回
func NormalizeWeekday(day string) string {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]; ok {
		return wd.String()
	}
	return day
}

// 接受的截止时间格式：RFC3339、浏览器 datetime-local、纯日期
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate 解析截止时间；不带时区的输入按 loc 解释，纯日期视为当天 23:59
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dueDateLayouts[1:] {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(23*time.Hour + 59*time.Minute)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("无法解析截止时间 %q", s)
}

func validateClock(fl validator.FieldLevel) bool {
	_, _, ok := model.ParseClock(fl.Field().String())
	return ok
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := weekdayNames[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
	return ok
}

func validateDueDate(fl validator.FieldLevel) bool {
	_, err := ParseDueDate(fl.Field().String(), time.UTC)
	return err == nil
}

// RegisterValidations 向 validator 注册自定义标签
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"clock":   validateClock,
		"weekday": validateWeekday,
		"duedate": validateDueDate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验规则 %s 失败: %w", tag, err)
		}
	}
	return nil
}

// RegisterBindingValidations 将自定义标签注册到 gin 默认绑定校验器
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 绑定校验器不是 go-playground/validator")
	}
	return RegisterValidations(v)
}
