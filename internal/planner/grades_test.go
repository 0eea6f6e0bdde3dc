package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
)

func score(v float64) *float64 { return &v }

func graded(id, courseID int, grade, weight float64) model.Assignment {
	return model.Assignment{ID: id, CourseID: courseID, Grade: score(grade), Weight: weight}
}

func TestCourseGrade(t *testing.T) {
	testCases := []struct {
		name        string
		assignments []model.Assignment
		courseID    int
		expected    int
		expectedOK  bool
	}{
		{
			name:        "equal weights average",
			assignments: []model.Assignment{graded(1, 1, 90, 50), graded(2, 1, 70, 50)},
			courseID:    1,
			expected:    80,
			expectedOK:  true,
		},
		{
			name:        "weights skew the mean",
			assignments: []model.Assignment{graded(1, 1, 100, 75), graded(2, 1, 60, 25)},
			courseID:    1,
			expected:    90,
			expectedOK:  true,
		},
		{
			name:        "half rounds up",
			assignments: []model.Assignment{graded(1, 1, 85, 1), graded(2, 1, 90, 1)},
			courseID:    1,
			expected:    88,
			expectedOK:  true,
		},
		{
			name: "ungraded assignments are ignored",
			assignments: []model.Assignment{
				graded(1, 1, 72, 20),
				{ID: 2, CourseID: 1, Weight: 80},
			},
			courseID:   1,
			expected:   72,
			expectedOK: true,
		},
		{
			name:        "other courses are ignored",
			assignments: []model.Assignment{graded(1, 2, 40, 50), graded(2, 1, 95, 50)},
			courseID:    1,
			expected:    95,
			expectedOK:  true,
		},
		{
			name:        "no graded assignments is absent",
			assignments: []model.Assignment{{ID: 1, CourseID: 1, Weight: 30}},
			courseID:    1,
			expectedOK:  false,
		},
		{
			name:       "empty collection is absent",
			courseID:   1,
			expectedOK: false,
		},
		{
			name:        "zero total weight is absent",
			assignments: []model.Assignment{graded(1, 1, 90, 0), graded(2, 1, 80, 0)},
			courseID:    1,
			expectedOK:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grade, ok := CourseGrade(tc.assignments, tc.courseID)
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expected, grade)
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	cases := map[float64]string{
		100:  "A",
		90:   "A",
		89:   "B",
		89.9: "B",
		80:   "B",
		79:   "C",
		70:   "C",
		69:   "D",
		60:   "D",
		59:   "F",
		0:    "F",
	}
	for in, want := range cases {
		assert.Equal(t, want, LetterGrade(in), "LetterGrade(%v)", in)
	}
}

func TestGradePoint(t *testing.T) {
	assert.Equal(t, 4.0, GradePoint(90))
	assert.Equal(t, 3.0, GradePoint(89))
	assert.Equal(t, 3.0, GradePoint(80))
	assert.Equal(t, 2.0, GradePoint(70))
	assert.Equal(t, 1.0, GradePoint(60))
	assert.Equal(t, 0.0, GradePoint(59))
}

func TestGradeStanding(t *testing.T) {
	assert.Equal(t, StandingExcellent, GradeStanding(90))
	assert.Equal(t, StandingGood, GradeStanding(80))
	assert.Equal(t, StandingFair, GradeStanding(70))
	assert.Equal(t, StandingPoor, GradeStanding(69))
}

func TestOverallGPA(t *testing.T) {
	courses := []model.Course{
		{ID: 1, Name: "Calculus", Credits: 3},
		{ID: 2, Name: "Physics", Credits: 4},
	}

	t.Run("credit weighted mean of grade points", func(t *testing.T) {
		assignments := []model.Assignment{graded(1, 1, 95, 100), graded(2, 2, 85, 100)}
		gpa, ok := OverallGPA(courses, assignments)
		require.True(t, ok)
		assert.Equal(t, 3.43, gpa)
		assert.Equal(t, "3.43", FormatGPA(gpa))
	})

	t.Run("ungraded course credits do not dilute", func(t *testing.T) {
		withUngraded := append([]model.Course{{ID: 3, Name: "History", Credits: 6}}, courses...)
		assignments := []model.Assignment{graded(1, 1, 95, 100), graded(2, 2, 85, 100), {ID: 3, CourseID: 3, Weight: 50}}
		gpa, ok := OverallGPA(withUngraded, assignments)
		require.True(t, ok)
		assert.Equal(t, 3.43, gpa)
	})

	t.Run("absent when nothing is graded", func(t *testing.T) {
		_, ok := OverallGPA(courses, []model.Assignment{{ID: 1, CourseID: 1, Weight: 10}})
		assert.False(t, ok)
	})

	t.Run("absent with no courses", func(t *testing.T) {
		_, ok := OverallGPA(nil, []model.Assignment{graded(1, 1, 95, 100)})
		assert.False(t, ok)
	})

	t.Run("orphan assignments do not count", func(t *testing.T) {
		assignments := []model.Assignment{graded(1, 99, 100, 100), graded(2, 2, 75, 100)}
		gpa, ok := OverallGPA(courses, assignments)
		require.True(t, ok)
		assert.Equal(t, 2.0, gpa)
	})
}

func TestCourseReports(t *testing.T) {
	courses := []model.Course{{ID: 1, Credits: 3}, {ID: 2, Credits: 2}}
	assignments := []model.Assignment{
		graded(1, 1, 92, 40),
		{ID: 2, CourseID: 1, Weight: 60},
		graded(3, 42, 50, 10),
	}

	reports := CourseReports(courses, assignments)
	require.Len(t, reports, 2)

	assert.True(t, reports[0].Graded)
	assert.Equal(t, 92, reports[0].Grade)
	assert.Equal(t, "A", reports[0].Letter)
	assert.Equal(t, StandingExcellent, reports[0].Standing)
	assert.Equal(t, 1, reports[0].GradedCount)
	assert.Equal(t, 2, reports[0].TotalCount)

	assert.False(t, reports[1].Graded)
	assert.Equal(t, 0, reports[1].TotalCount)
	assert.Empty(t, reports[1].Letter)
}
