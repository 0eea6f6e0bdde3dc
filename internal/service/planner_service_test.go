package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/planner"
)

func setupTestPlannerService(limit int) (PlannerService, *mockRepos) {
	repo, mocks := newMockRepository()
	svc := NewPlannerService(repo, zap.NewNop(), PlannerOptions{
		Now:           fixedClock,
		Location:      time.UTC,
		UpcomingLimit: limit,
	})
	return svc, mocks
}

func seedPlanner(m *mockRepos) {
	m.courses.put(model.Course{ID: 1, Name: "Calculus", Credits: 4, Schedule: []model.ScheduleSlot{
		{Day: "Monday", StartTime: "09:00", EndTime: "10:30", Location: "Room 101"},
		{Day: "Friday", StartTime: "09:00", EndTime: "10:30", Location: "Room 101"},
	}})
	m.courses.put(model.Course{ID: 2, Name: "Physics", Credits: 3, Schedule: []model.ScheduleSlot{
		{Day: "Friday", StartTime: "14:00", EndTime: "15:00"},
	}})
	m.courses.put(model.Course{ID: 3, Name: "Art", Credits: 2})

	// Calculus: (90·40 + 80·60)/100 = 84 → B / 3.0
	m.assignments.put(model.Assignment{ID: 1, CourseID: 1, Weight: 40, Grade: floatPtr(90), Completed: true,
		DueDate: testNow.Add(-72 * time.Hour)})
	m.assignments.put(model.Assignment{ID: 2, CourseID: 1, Weight: 60, Grade: floatPtr(80), Completed: true,
		DueDate: testNow.Add(-48 * time.Hour)})
	// Physics: 95 → A / 4.0
	m.assignments.put(model.Assignment{ID: 3, CourseID: 2, Weight: 100, Grade: floatPtr(95),
		DueDate: testNow.Add(-24 * time.Hour)})
	m.assignments.put(model.Assignment{ID: 4, CourseID: 2, Weight: 10, DueDate: testNow.Add(2 * time.Hour)})
	m.assignments.put(model.Assignment{ID: 5, CourseID: 3, Weight: 10, DueDate: testNow.Add(30 * time.Hour)})
}

// ── GradeReport 测试 ──

func TestPlannerService_GradeReport(t *testing.T) {
	svc, mocks := setupTestPlannerService(0)
	seedPlanner(mocks)

	report, err := svc.GradeReport(context.Background())
	if err != nil {
		t.Fatalf("GradeReport 应成功: %v", err)
	}
	if len(report.Courses) != 3 {
		t.Fatalf("期望3门课程，实际=%d", len(report.Courses))
	}

	calc := report.Courses[0]
	if calc.Grade == nil || *calc.Grade != 84 || calc.Letter != "B" {
		t.Errorf("Calculus 期望 84/B，实际=%v/%s", calc.Grade, calc.Letter)
	}
	art := report.Courses[2]
	if art.Grade != nil || art.GradePoint != nil || art.Letter != "" {
		t.Error("未评分课程的成绩字段应为空")
	}

	// (3.0·4 + 4.0·3) / 7 = 3.428… → 3.43
	if report.GPA == nil || *report.GPA != 3.43 {
		t.Errorf("期望GPA=3.43，实际=%v", report.GPA)
	}
	if report.GPAText != "3.43" {
		t.Errorf("期望GPAText=3.43，实际=%s", report.GPAText)
	}
}

func TestPlannerService_GradeReport_NoGrades(t *testing.T) {
	svc, mocks := setupTestPlannerService(0)
	mocks.courses.put(model.Course{ID: 1, Name: "Calculus", Credits: 4})

	report, err := svc.GradeReport(context.Background())
	if err != nil {
		t.Fatalf("GradeReport 应成功: %v", err)
	}
	if report.GPA != nil || report.GPAText != "" {
		t.Error("无已评分课程时 GPA 应为空而不是 0")
	}
}

// ── Dashboard 测试 ──

func TestPlannerService_Dashboard(t *testing.T) {
	svc, mocks := setupTestPlannerService(1)
	seedPlanner(mocks)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard 应成功: %v", err)
	}
	if d.Stats.TotalCourses != 3 || d.Stats.TotalAssignments != 5 {
		t.Errorf("统计数量错误: %+v", d.Stats)
	}
	if d.Stats.Completed != 2 || d.Stats.Pending != 3 {
		t.Errorf("期望完成2/待办3，实际=%d/%d", d.Stats.Completed, d.Stats.Pending)
	}
	if d.Stats.Overdue != 1 || d.Stats.Upcoming != 2 {
		t.Errorf("期望逾期1/即将2，实际=%d/%d", d.Stats.Overdue, d.Stats.Upcoming)
	}
	if d.Stats.CompletionRate != 40 {
		t.Errorf("期望完成率40，实际=%d", d.Stats.CompletionRate)
	}
	if len(d.Upcoming) != 1 || d.Upcoming[0].ID != 4 {
		t.Errorf("即将截止列表应被截断为最近的一条，实际=%v", ids(d.Upcoming))
	}
	if len(d.Overdue) != 1 || d.Overdue[0].ID != 3 {
		t.Errorf("期望逾期作业为3，实际=%v", ids(d.Overdue))
	}
	// 2024-03-15 为周五
	if len(d.Today) != 2 {
		t.Errorf("周五应有2门课程，实际=%d", len(d.Today))
	}
}

func TestPlannerService_Dashboard_DefaultLimit(t *testing.T) {
	svc, mocks := setupTestPlannerService(0)
	for i := 1; i <= 8; i++ {
		mocks.assignments.put(model.Assignment{ID: i, CourseID: 1, DueDate: testNow.Add(time.Duration(i) * time.Hour)})
	}

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard 应成功: %v", err)
	}
	if len(d.Upcoming) != planner.DefaultUpcomingLimit {
		t.Errorf("期望默认展示%d条，实际=%d", planner.DefaultUpcomingLimit, len(d.Upcoming))
	}
}

// ── Today / Week 测试 ──

func TestPlannerService_Today(t *testing.T) {
	svc, mocks := setupTestPlannerService(0)
	seedPlanner(mocks)

	today, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if today.Day != "Friday" || len(today.Classes) != 2 {
		t.Errorf("期望周五2门课程，实际=%s/%d", today.Day, len(today.Classes))
	}

	monday, err := svc.Today(context.Background(), "monday")
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if monday.Day != "Monday" || len(monday.Classes) != 1 || monday.Classes[0].CourseName != "Calculus" {
		t.Errorf("周一期望仅 Calculus，实际=%+v", monday)
	}

	_, err = svc.Today(context.Background(), "someday")
	if !errors.Is(err, ErrWeekdayInvalid) {
		t.Errorf("期望 ErrWeekdayInvalid，实际: %v", err)
	}
}

func TestPlannerService_Week(t *testing.T) {
	svc, mocks := setupTestPlannerService(0)
	seedPlanner(mocks)

	week, err := svc.Week(context.Background())
	if err != nil {
		t.Fatalf("Week 应成功: %v", err)
	}
	if len(week.Days) != 5 {
		t.Errorf("周课表应为周一至周五，实际=%v", week.Days)
	}
	if len(week.Rows) != planner.GridLastHour-planner.GridFirstHour+1 {
		t.Fatalf("行数错误: %d", len(week.Rows))
	}

	nine := week.Rows[9-planner.GridFirstHour]
	if nine.Hour != 9 {
		t.Fatalf("期望第3行为9点，实际=%d", nine.Hour)
	}
	if len(nine.Cells[0].Courses) != 1 || nine.Cells[0].Courses[0].Name != "Calculus" {
		t.Errorf("周一9点应有 Calculus，实际=%+v", nine.Cells[0])
	}
	if len(nine.Cells[1].Courses) != 0 {
		t.Errorf("周二9点应为空，实际=%+v", nine.Cells[1])
	}
}
