package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/config"
	"github.com/apper-canvas/study-primary-pixel/internal/api/handler"
	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository/memory"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
)

func init() {
	if err := dto.RegisterBindingValidations(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listData[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BodyLimit:   1 << 20,
			MetricsPath: "/metrics",
			CORS:        config.CORSConfig{AllowOrigins: []string{"*"}},
		},
		RateLimit: config.RateLimitConfig{Limit: 100, Window: time.Minute},
		Planner:   config.PlannerConfig{Timezone: "UTC", UpcomingLimit: 5},
	}
}

func setupRouter(t *testing.T, seed memory.Seed) (*gin.Engine, *memory.Store) {
	t.Helper()
	store := memory.New(seed)
	svc, err := service.NewService(testConfig(), store.Repository(), zap.NewNop())
	require.NoError(t, err)

	h := handler.NewHandler(svc, handler.HealthCheck{
		Name:  "store",
		Check: func(context.Context) error { return nil },
	})
	return Setup(testConfig(), h, nil, zap.NewNop()), store
}

func call(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestRouter_CourseAndAssignmentFlow(t *testing.T) {
	r, _ := setupRouter(t, memory.Seed{})

	w, env := call(t, r, http.MethodPost, "/api/v1/courses", map[string]any{
		"name":    "Calculus",
		"credits": 4,
		"schedule": []map[string]string{
			{"day": "monday", "start_time": "09:00", "end_time": "10:30"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course dto.CourseResponse
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, 1, course.ID)
	assert.Equal(t, "Monday", course.Schedule[0].Day)

	w, env = call(t, r, http.MethodPost, "/api/v1/assignments", map[string]any{
		"title":     "HW1",
		"course_id": course.ID,
		"due_date":  "2099-01-01T12:00",
		"priority":  "high",
		"weight":    40,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a dto.AssignmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.False(t, a.Completed)

	w, env = call(t, r, http.MethodPatch, "/api/v1/assignments/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.True(t, a.Completed)

	w, env = call(t, r, http.MethodGet, "/api/v1/assignments?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list listData[dto.AssignmentResponse]
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	// 删除课程不级联删除作业
	w, _ = call(t, r, http.MethodDelete, "/api/v1/courses/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = call(t, r, http.MethodGet, "/api/v1/courses/1/assignments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	w, env = call(t, r, http.MethodDelete, "/api/v1/courses/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 20001, env.Code)
}

func TestRouter_PlannerViews(t *testing.T) {
	grade := 92.0
	r, _ := setupRouter(t, memory.Seed{
		Courses: []model.Course{{ID: 1, Name: "Physics", Credits: 3}},
		Assignments: []model.Assignment{
			{ID: 1, CourseID: 1, Title: "Lab", Weight: 100, Grade: &grade, Completed: true, DueDate: time.Now().Add(-time.Hour)},
		},
	})

	w, env := call(t, r, http.MethodGet, "/api/v1/planner/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report dto.GradeReportResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.NotNil(t, report.GPA)
	assert.Equal(t, 4.0, *report.GPA)

	for _, path := range []string{"/api/v1/planner/dashboard", "/api/v1/planner/week", "/api/v1/planner/today?day=Tuesday"} {
		w, _ = call(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w, _ = call(t, r, http.MethodGet, "/api/v1/planner/today?day=Funday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ExportAndImport(t *testing.T) {
	r, _ := setupRouter(t, memory.Seed{
		Courses: []model.Course{{ID: 1, Name: "Physics", Credits: 3, Schedule: []model.ScheduleSlot{
			{Day: "Tuesday", StartTime: "10:00", EndTime: "11:00"},
		}}},
	})

	w, _ := call(t, r, http.MethodGet, "/api/v1/export/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w, _ = call(t, r, http.MethodGet, "/api/v1/export/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ics := w.Body.String()
	assert.Contains(t, ics, "SUMMARY:Physics")

	// 导回同一份日历：同名课程被跳过
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/calendar", strings.NewReader(ics))
	req.Header.Set("Content-Type", "text/calendar")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var result dto.ImportCalendarResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Created)
}

func TestRouter_InfraEndpoints(t *testing.T) {
	r, _ := setupRouter(t, memory.Seed{})

	w, _ := call(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = call(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "planner_http_requests_total")

	w, _ = call(t, r, http.MethodGet, "/api/v1/courses/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	r, _ := setupRouter(t, memory.Seed{})

	big := strings.Repeat("x", 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/calendar", strings.NewReader(big))
	req.Header.Set("Content-Type", "text/calendar")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
