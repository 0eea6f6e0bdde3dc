package service

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 将 iCalendar (RFC 5545) 内容解析为课程及其每周时段：
//   - SUMMARY 作为课程名，同名事件合并为一门课程
//   - DTSTART/DTEND（或 DURATION）确定上课时间
//   - RRULE FREQ=WEEKLY 且带 BYDAY 时按 BYDAY 展开为多个时段，否则取 DTSTART 所在星期
//   - 跨天事件与缺少时间的事件跳过并给出提示
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize        = 5 * 1024 * 1024 // 5MB
	importDefaultCredits  = 3
	importDefaultSemester = "Fall 2024"
)

// 导入课程依次使用的颜色
var importPalette = []string{
	"#4A90E2", "#5C6BC0", "#66BB6A", "#FFA726",
	"#AB47BC", "#EF5350", "#26A69A", "#42A5F5",
}

var icsWeekdays = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// parsedCourse ICS 解析中间结构：课程名 + 去重后的时段
type parsedCourse struct {
	Name  string
	Slots []model.ScheduleSlot
	seen  map[model.ScheduleSlot]bool
}

// ParseICS 解析 ICS 内容并转为课程列表（尚未分配 ID）。
// 第二个返回值为被跳过事件的说明。
func ParseICS(reader io.Reader, loc *time.Location) ([]model.Course, []string, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}

	var warnings []string
	byName := make(map[string]*parsedCourse)
	var order []string

	for _, evt := range cal.Events() {
		name, slots, warn := parseVEvent(evt, loc)
		if warn != "" {
			warnings = append(warnings, warn)
			continue
		}

		pc, ok := byName[name]
		if !ok {
			pc = &parsedCourse{Name: name, seen: make(map[model.ScheduleSlot]bool)}
			byName[name] = pc
			order = append(order, name)
		}
		for _, s := range slots {
			if pc.seen[s] {
				continue
			}
			pc.seen[s] = true
			pc.Slots = append(pc.Slots, s)
		}
	}

	courses := make([]model.Course, 0, len(order))
	for i, name := range order {
		pc := byName[name]
		courses = append(courses, model.Course{
			Name:     pc.Name,
			Credits:  importDefaultCredits,
			Semester: importDefaultSemester,
			Color:    importPalette[i%len(importPalette)],
			Schedule: pc.Slots,
		})
	}
	return courses, warnings, nil
}

// parseVEvent 解析单个 VEVENT；无法使用时返回非空提示
func parseVEvent(evt *ics.VEvent, loc *time.Location) (string, []model.ScheduleSlot, string) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return "", nil, "跳过缺少 SUMMARY 的事件"
	}
	name := strings.TrimSpace(summary.Value)

	srcStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return "", nil, fmt.Sprintf("跳过事件 %q：%v", name, err)
	}
	dtStart := srcStart.In(loc)
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		durProp := evt.GetProperty(ics.ComponentPropertyDuration)
		if durProp == nil {
			return "", nil, fmt.Sprintf("跳过事件 %q：缺少 DTEND 与 DURATION", name)
		}
		d, derr := parseICSDuration(durProp.Value)
		if derr != nil {
			return "", nil, fmt.Sprintf("跳过事件 %q：%v", name, derr)
		}
		dtEnd = dtStart.Add(d)
	}
	dtEnd = dtEnd.In(loc)
	if !dtEnd.After(dtStart) {
		return "", nil, fmt.Sprintf("跳过事件 %q：结束时间不晚于开始时间", name)
	}
	if dtEnd.Format("20060102") != dtStart.Format("20060102") {
		return "", nil, fmt.Sprintf("跳过事件 %q：跨天事件无法作为课程时段", name)
	}

	location := ""
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
		location = strings.TrimSpace(p.Value)
	}

	// BYDAY 按 DTSTART 原时区解释，转换到 loc 后可能前后错一天
	days := []time.Weekday{srcStart.Weekday()}
	if p := evt.GetProperty(ics.ComponentPropertyRrule); p != nil {
		if rule := parseRRule(p.Value); rule.freq == "WEEKLY" && len(rule.byDay) > 0 {
			days = rule.byDay
		}
	}
	shift := calendarDayShift(srcStart, dtStart)

	slots := make([]model.ScheduleSlot, 0, len(days))
	for _, d := range days {
		slots = append(slots, model.ScheduleSlot{
			Day:       shiftWeekday(d, shift).String(),
			StartTime: dtStart.Format("15:04"),
			EndTime:   dtEnd.Format("15:04"),
			Location:  location,
		})
	}
	return name, slots, ""
}

// calendarDayShift 同一时刻在 from、to 两个时区下的日历日期差（天）
func calendarDayShift(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func shiftWeekday(d time.Weekday, shift int) time.Weekday {
	return time.Weekday(((int(d)+shift)%7 + 7) % 7)
}

// rruleParams RRULE 解析结果（只关心课程时段需要的部分）
type rruleParams struct {
	freq  string
	byDay []time.Weekday
}

// parseRRule 解析 RRULE 字符串（如 FREQ=WEEKLY;BYDAY=MO,WE;COUNT=16）
func parseRRule(value string) rruleParams {
	var r rruleParams
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "BYDAY":
			for _, d := range strings.Split(kv[1], ",") {
				d = strings.ToUpper(strings.TrimSpace(d))
				// 去掉 "1MO" / "-1FR" 这类序号前缀
				if len(d) > 2 {
					d = d[len(d)-2:]
				}
				if wd, ok := icsWeekdays[d]; ok {
					r.byDay = append(r.byDay, wd)
				}
			}
		}
	}
	return r
}

var icsDurationPattern = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseICSDuration 解析 RFC 5545 DURATION（如 PT1H30M）
func parseICSDuration(value string) (time.Duration, error) {
	m := icsDurationPattern.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(value), "+"))
	if m == nil {
		return 0, fmt.Errorf("无法解析 DURATION: %s", value)
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, u := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += time.Duration(n) * u
	}
	if total <= 0 {
		return 0, fmt.Errorf("DURATION 必须为正: %s", value)
	}
	return total, nil
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性，保留其原始时区：
// UTC 时间返回 UTC，带 TZID 的返回该时区，浮动时间按 loc 解释
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("缺少属性 %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	// 全天事件（纯日期）没有上课时间
	if len(val) == len("20060102") {
		return time.Time{}, fmt.Errorf("%s 为全天日期，缺少时间", propName)
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t, nil
	}
	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
	}
	if tzid != "" {
		if tzLoc, err := time.LoadLocation(tzid); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc), nil
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}
