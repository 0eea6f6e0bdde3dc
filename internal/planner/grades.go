// Package planner 由课程与作业快照推导出的只读视图：课程成绩、GPA、
// 作业筛选排序、今日课程、截止时间分组与仪表盘统计。
//
// 所有函数均为纯函数：不持有状态、不做 I/O、不修改入参，
// 相同输入永远得到相同输出。
package planner

import (
	"fmt"
	"math"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

// ── 成绩档位 ──

// Standing 成绩徽章色调
type Standing string

const (
	StandingExcellent Standing = "excellent" // ≥90
	StandingGood      Standing = "good"      // ≥80
	StandingFair      Standing = "fair"      // ≥70
	StandingPoor      Standing = "poor"
)

// roundHalfUp 四舍五入到整数（.5 向正无穷方向进位）
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CourseGrade 计算课程加权成绩 Σ(grade·weight)/Σweight，四舍五入到整数。
//
// 只统计 CourseID 匹配且已评分的作业；没有此类作业或权重总和为 0 时
// 返回 ok=false（成绩缺失，而不是 0 分）。
func CourseGrade(assignments []model.Assignment, courseID int) (grade int, ok bool) {
	var weighted, totalWeight float64
	graded := 0
	for i := range assignments {
		a := &assignments[i]
		if a.CourseID != courseID || a.Grade == nil {
			continue
		}
		graded++
		weighted += *a.Grade * a.Weight
		totalWeight += a.Weight
	}
	if graded == 0 || totalWeight == 0 {
		return 0, false
	}
	return roundHalfUp(weighted / totalWeight), true
}

// LetterGrade 百分制 → 字母等级，边界值归入较高档（90 为 A）
func LetterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradePoint 百分制 → 绩点（五档阶梯，不做连续换算）
func GradePoint(score float64) float64 {
	switch {
	case score >= 90:
		return 4.0
	case score >= 80:
		return 3.0
	case score >= 70:
		return 2.0
	case score >= 60:
		return 1.0
	default:
		return 0.0
	}
}

// GradeStanding 百分制 → 徽章色调
func GradeStanding(score float64) Standing {
	switch {
	case score >= 90:
		return StandingExcellent
	case score >= 80:
		return StandingGood
	case score >= 70:
		return StandingFair
	default:
		return StandingPoor
	}
}

// OverallGPA 按学分加权的总 GPA，保留两位小数。
//
// 仅统计有课程成绩的课程，未评分课程的学分不计入分母；
// 没有任何可计入的课程时返回 ok=false，调用方不得显示为 0.00。
func OverallGPA(courses []model.Course, assignments []model.Assignment) (gpa float64, ok bool) {
	var points float64
	credits := 0
	for i := range courses {
		c := &courses[i]
		grade, graded := CourseGrade(assignments, c.ID)
		if !graded {
			continue
		}
		credits += c.Credits
		points += GradePoint(float64(grade)) * float64(c.Credits)
	}
	if credits <= 0 {
		return 0, false
	}
	return math.Round(points/float64(credits)*100) / 100, true
}

// FormatGPA 以两位小数格式化 GPA
func FormatGPA(gpa float64) string {
	return fmt.Sprintf("%.2f", gpa)
}

// CourseReport 单门课程的成绩汇总
type CourseReport struct {
	Course        model.Course
	Grade         int
	Graded        bool // false 时 Grade/Letter/Standing 无意义
	Letter        string
	Standing      Standing
	GradePoint    float64
	GradedCount   int
	TotalCount    int
	GradedEntries []model.Assignment // 该课程已评分的作业，保持原顺序
}

// CourseReports 为每门课程生成成绩汇总，顺序与 courses 一致
func CourseReports(courses []model.Course, assignments []model.Assignment) []CourseReport {
	reports := make([]CourseReport, 0, len(courses))
	for i := range courses {
		c := courses[i]
		r := CourseReport{Course: c}
		for j := range assignments {
			a := assignments[j]
			if a.CourseID != c.ID {
				continue
			}
			r.TotalCount++
			if a.Grade != nil {
				r.GradedCount++
				r.GradedEntries = append(r.GradedEntries, a)
			}
		}
		if grade, ok := CourseGrade(assignments, c.ID); ok {
			r.Grade = grade
			r.Graded = true
			r.Letter = LetterGrade(float64(grade))
			r.Standing = GradeStanding(float64(grade))
			r.GradePoint = GradePoint(float64(grade))
		}
		reports = append(reports, r)
	}
	return reports
}
