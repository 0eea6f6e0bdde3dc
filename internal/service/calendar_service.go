package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/metrics"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// ── 日历模块业务错误 ──

var (
	ErrCalendarInvalid = errors.New("日历文件格式无效")
)

const calendarProductID = "-//study-planner//schedule//ZH"

// icsUIDNamespace 生成稳定 UID 的命名空间，同一时段多次导出 UID 不变
var icsUIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("study-planner/calendar"))

// CalendarService 课表的 iCalendar 导入导出
type CalendarService interface {
	// ExportCalendar 导出课表与未完成作业截止时间，返回 ICS 内容与建议文件名
	ExportCalendar(ctx context.Context) ([]byte, string, error)
	// ImportCalendar 从 ICS 创建课程；与已有课程同名的跳过
	ImportCalendar(ctx context.Context, r io.Reader) (*dto.ImportCalendarResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
	loc    *time.Location
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger, now Clock, loc *time.Location) CalendarService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &calendarService{repo: repo, logger: logger, now: now, loc: loc}
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar: 导出
// ═══════════════════════════════════════════════════════════
//
// 每个上课时段生成一个每周重复的 VEVENT，首次发生日期锚定在本周（周一起算）；
// 每个未完成作业生成一个截止时间点事件。时间无法解析的时段直接跳过。

func (s *calendarService) ExportCalendar(ctx context.Context) ([]byte, string, error) {
	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("读取课表数据失败", zap.Error(err))
		return nil, "", err
	}

	now := s.now().In(s.loc)
	monday := weekStart(now)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, c := range snap.courses {
		for i, slot := range c.Schedule {
			start, end, byDay, ok := slotOccurrence(monday, slot)
			if !ok {
				s.logger.Warn("跳过无法导出的课程时段",
					zap.Int("course_id", c.ID), zap.String("day", slot.Day),
					zap.String("start", slot.StartTime), zap.String("end", slot.EndTime))
				continue
			}
			evt := cal.AddEvent(stableUID("course", c.ID, i))
			evt.SetDtStampTime(now)
			evt.SetSummary(c.Name)
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+byDay)
			if slot.Location != "" {
				evt.SetLocation(slot.Location)
			}
			if c.Instructor != "" {
				evt.SetDescription(c.Instructor)
			}
		}
	}

	idx := make(map[int]string, len(snap.courses))
	for _, c := range snap.courses {
		idx[c.ID] = c.Name
	}
	for _, a := range snap.assignments {
		if a.Completed {
			continue
		}
		evt := cal.AddEvent(stableUID("assignment", a.ID, 0))
		evt.SetDtStampTime(now)
		evt.SetSummary("截止：" + a.Title)
		evt.SetStartAt(a.DueDate)
		evt.SetEndAt(a.DueDate)
		if name, ok := idx[a.CourseID]; ok {
			evt.SetDescription(name)
		}
	}

	filename := fmt.Sprintf("schedule_%s.ics", now.Format("20060102"))
	return []byte(cal.Serialize()), filename, nil
}

// weekStart 返回 t 所在周的周一 00:00
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// slotOccurrence 计算时段在 monday 所在周的具体起止时间及 BYDAY 代码
func slotOccurrence(monday time.Time, slot model.ScheduleSlot) (time.Time, time.Time, string, bool) {
	wd, ok := weekdayByName(dto.NormalizeWeekday(slot.Day))
	if !ok {
		return time.Time{}, time.Time{}, "", false
	}
	sh, sm, ok1 := model.ParseClock(slot.StartTime)
	eh, em, ok2 := model.ParseClock(slot.EndTime)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, "", false
	}
	day := monday.AddDate(0, 0, (int(wd)+6)%7)
	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, day.Location())
	if !end.After(start) {
		return time.Time{}, time.Time{}, "", false
	}
	return start, end, strings.ToUpper(wd.String()[:2]), true
}

func weekdayByName(day string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == day {
			return wd, true
		}
	}
	return 0, false
}

func stableUID(kind string, id, n int) string {
	name := fmt.Sprintf("%s/%d/%d", kind, id, n)
	return uuid.NewSHA1(icsUIDNamespace, []byte(name)).String()
}

// ═══════════════════════════════════════════════════════════
// ImportCalendar: 导入
// ═══════════════════════════════════════════════════════════

func (s *calendarService) ImportCalendar(ctx context.Context, r io.Reader) (*dto.ImportCalendarResponse, error) {
	parsed, warnings, err := ParseICS(r, s.loc)
	if err != nil {
		s.logger.Warn("日历文件解析失败", zap.Error(err))
		return nil, ErrCalendarInvalid
	}

	existing, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}

	resp := &dto.ImportCalendarResponse{
		Created:  make([]dto.CourseResponse, 0, len(parsed)),
		Warnings: warnings,
	}
	for i := range parsed {
		c := &parsed[i]
		key := strings.ToLower(c.Name)
		if names[key] {
			resp.Skipped++
			continue
		}
		if err := s.repo.Course.Create(ctx, c); err != nil {
			s.logger.Error("导入课程失败", zap.String("name", c.Name), zap.Error(err))
			return nil, err
		}
		names[key] = true
		metrics.RecordChangesTotal.WithLabelValues("course", "import").Inc()
		resp.Created = append(resp.Created, *toCourseResponse(c))
	}

	s.logger.Info("日历导入完成",
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", resp.Skipped),
		zap.Int("warnings", len(warnings)))
	return resp, nil
}
