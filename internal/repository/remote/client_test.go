package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	apperrors "github.com/apper-canvas/study-primary-pixel/pkg/errors"
)

// recordedCall 记录测试服务器收到的请求
type recordedCall struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

type fakeServer struct {
	mu    sync.Mutex
	calls []recordedCall
	reply func(call recordedCall) (int, string)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	call := recordedCall{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	status, payload := f.reply(call)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

func (f *fakeServer) lastCall(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, reply func(call recordedCall) (int, string)) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{reply: reply}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:   srv.URL + "/",
		ProjectID: "proj-1",
		PublicKey: "pk-test",
		Timeout:   2 * time.Second,
		PageSize:  2,
	}, zap.NewNop())
	require.NoError(t, err)
	return client, fake
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{ProjectID: "p"}, nil)
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://x"}, nil)
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://x/", ProjectID: "p"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://x", c.cfg.BaseURL)
	assert.Equal(t, defaultPageSize, c.cfg.PageSize)
}

func TestCourseListPagesAndMapsFields(t *testing.T) {
	client, fake := newTestClient(t, func(call recordedCall) (int, string) {
		paging := call.Body["pagingInfo"].(map[string]any)
		if paging["offset"].(float64) == 0 {
			return 200, `{"success":true,"data":[
				{"Id":1,"Name":"Calculus","instructor_c":"Dr. Smith","credits_c":4,"semester_c":"Fall 2024","color_c":"#4F46E5",
				 "schedule_c":"[{\"day\":\"Monday\",\"start_time\":\"09:00\",\"end_time\":\"10:30\",\"location\":\"Hall A\"}]"},
				{"Id":2,"Name":"Physics","credits_c":3,"schedule_c":"not json"}]}`
		}
		return 200, `{"success":true,"data":[{"Id":5,"Name":"History","credits_c":2}]}`
	})

	courses, err := client.Repository().Course.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 3)

	assert.Equal(t, "Dr. Smith", courses[0].Instructor)
	assert.Equal(t, 4, courses[0].Credits)
	require.Len(t, courses[0].Schedule, 1)
	assert.Equal(t, "10:30", courses[0].Schedule[0].EndTime)
	assert.Empty(t, courses[1].Schedule, "无效课表按空处理")
	assert.NotNil(t, courses[2].Schedule)

	call := fake.lastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/tables/courses_c/records/query", call.Path)
	assert.Equal(t, "proj-1", call.Header.Get("X-Project-Id"))
	assert.Equal(t, "Bearer pk-test", call.Header.Get("Authorization"))
	assert.Len(t, fake.calls, 2)
}

func TestFetchAllStopsAtPageLimit(t *testing.T) {
	prev := maxFetchPages
	maxFetchPages = 3
	t.Cleanup(func() { maxFetchPages = prev })

	// 服务端忽略 offset，每页都返回满页
	client, fake := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"data":[{"Id":1,"Name":"Calculus"},{"Id":2,"Name":"Physics"}]}`
	})

	courses, err := client.Repository().Course.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 6)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.calls, 3)
}

func TestReadFailuresDegrade(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"服务端错误", 500, `boom`},
		{"success=false", 200, `{"success":false,"message":"table not found"}`},
		{"非 JSON 响应", 200, `<html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(recordedCall) (int, string) { return tc.status, tc.body })
			repo := client.Repository()
			ctx := context.Background()

			courses, err := repo.Course.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, courses)

			assignments, err := repo.Assignment.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, assignments)

			_, err = repo.Course.GetByID(ctx, 1)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

			ok, err := repo.Assignment.Delete(ctx, 1)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestTransportFailureDegrades(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", ProjectID: "p", Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)

	courses, err := client.Repository().Course.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestAssignmentGetByIDMapping(t *testing.T) {
	client, fake := newTestClient(t, func(call recordedCall) (int, string) {
		if call.Path == "/tables/assignments_c/records/9/query" {
			return 200, `{"success":true,"data":null}`
		}
		return 200, `{"success":true,"data":{"Id":3,"Name":"Lab Report","description_c":"Pendulum",
			"course_id_c":{"Id":2,"Name":"Physics"},"due_date_c":"2024-03-15T23:59","priority_c":"High",
			"weight_c":30,"completed_c":true,"grade_c":91.5}}`
	})
	repo := client.Repository()

	a, err := repo.Assignment.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Lab Report", a.Title)
	assert.Equal(t, 2, a.CourseID)
	assert.Equal(t, model.PriorityHigh, a.Priority)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), a.DueDate)
	assert.True(t, a.Completed)
	require.NotNil(t, a.Grade)
	assert.Equal(t, 91.5, *a.Grade)
	assert.Equal(t, "/tables/assignments_c/records/3/query", fake.lastCall(t).Path)

	_, err = repo.Assignment.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByCourseSendsFilter(t *testing.T) {
	client, fake := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"data":[{"Id":1,"Name":"Essay","course_id_c":"4"}]}`
	})

	list, err := client.Repository().Assignment.ListByCourse(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].CourseID)

	where := fake.lastCall(t).Body["where"].([]any)
	require.Len(t, where, 1)
	clause := where[0].(map[string]any)
	assert.Equal(t, "course_id_c", clause["FieldName"])
	assert.Equal(t, []any{4.0}, clause["Values"])
}

func TestCreateCourse(t *testing.T) {
	client, fake := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"results":[{"success":true,"data":{"Id":12,"Name":"Chemistry","credits_c":3,"schedule_c":"[]"}}]}`
	})

	course := &model.Course{Name: "Chemistry", Credits: 3}
	require.NoError(t, client.Repository().Course.Create(context.Background(), course))
	assert.Equal(t, 12, course.ID)

	call := fake.lastCall(t)
	assert.Equal(t, "/tables/courses_c/records", call.Path)
	records := call.Body["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "Chemistry", rec["Name"])
	assert.Equal(t, "[]", rec["schedule_c"])
	_, hasInstructor := rec["instructor_c"]
	assert.False(t, hasInstructor, "空字段不应发送")
}

func TestCreateRejectedRecord(t *testing.T) {
	client, _ := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"results":[{"success":false,"errors":[{"fieldLabel":"Name","message":"required"}]}]}`
	})

	err := client.Repository().Assignment.Create(context.Background(), &model.Assignment{Title: ""})
	assert.ErrorIs(t, err, apperrors.ErrRemoteRejected)
	assert.Contains(t, err.Error(), "Name: required")
}

func TestUpdateAssignmentClearsGrade(t *testing.T) {
	client, fake := newTestClient(t, func(call recordedCall) (int, string) {
		if call.Method == http.MethodPut {
			return 200, `{"success":true,"results":[{"success":true,"data":{"Id":3,"Name":"Lab Report","grade_c":null}}]}`
		}
		return 200, `{"success":true,"data":{"Id":3,"Name":"Lab Report","course_id_c":2,"grade_c":80}}`
	})

	updated, err := client.Repository().Assignment.Update(context.Background(), 3, model.AssignmentPatch{ClearGrade: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Grade)

	call := fake.lastCall(t)
	assert.Equal(t, http.MethodPut, call.Method)
	rec := call.Body["records"].([]any)[0].(map[string]any)
	assert.Equal(t, 3.0, rec["Id"])
	grade, present := rec["grade_c"]
	assert.True(t, present)
	assert.Nil(t, grade)
}

func TestToggleComplete(t *testing.T) {
	client, fake := newTestClient(t, func(call recordedCall) (int, string) {
		if call.Method == http.MethodPut {
			return 200, `{"success":true,"results":[{"success":true,"data":{"Id":3,"completed_c":true}}]}`
		}
		return 200, `{"success":true,"data":{"Id":3,"completed_c":false}}`
	})

	a, err := client.Repository().Assignment.ToggleComplete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, a.Completed)
	rec := fake.lastCall(t).Body["records"].([]any)[0].(map[string]any)
	assert.Equal(t, true, rec["completed_c"])
}

func TestDeleteSendsRecordIDs(t *testing.T) {
	client, fake := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"results":[{"success":true}]}`
	})

	ok, err := client.Repository().Course.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	call := fake.lastCall(t)
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, []any{7.0}, call.Body["RecordIds"])
}

func TestDeleteMissingRecord(t *testing.T) {
	client, _ := newTestClient(t, func(recordedCall) (int, string) {
		return 200, `{"success":true,"results":[{"success":false,"message":"Record does not exist"}]}`
	})

	ok, err := client.Repository().Course.Delete(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGradeByAssignment(t *testing.T) {
	client, _ := newTestClient(t, func(call recordedCall) (int, string) {
		where, _ := call.Body["where"].([]any)
		if len(where) == 1 && where[0].(map[string]any)["Values"].([]any)[0].(float64) == 1 {
			return 200, `{"success":true,"data":[{"Id":4,"course_id_c":1,"assignment_id_c":{"Id":1},"score_c":88,"feedback_c":"ok"}]}`
		}
		return 200, `{"success":true,"data":[]}`
	})
	repo := client.Repository()

	g, err := repo.Grade.GetByAssignment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, g.ID)
	assert.Equal(t, 1, g.AssignmentID)
	assert.Equal(t, 88.0, g.Score)

	_, err = repo.Grade.GetByAssignment(context.Background(), 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
