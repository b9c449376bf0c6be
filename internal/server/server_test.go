package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mood-booster/internal/config"
	"mood-booster/internal/model"
	"mood-booster/internal/push"
	"mood-booster/internal/repository"
	"mood-booster/internal/service"
	"mood-booster/internal/testutil"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []push.Message
}

func (f *fakeSender) Send(_ context.Context, msg push.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return "projects/test/messages/1", nil
}

type fixture struct {
	handler http.Handler
	sender  *fakeSender
	db      *gorm.DB
}

func newTestServer(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	taskRepo := repository.NewTaskRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	boostRepo := repository.NewBoostRepository(db)
	require.NoError(t, boostRepo.SeedQuotes(context.Background()))

	sender := &fakeSender{}
	logger := log.New(io.Discard)
	cfg := config.Config{
		DefaultUserID: "default-user",
		CronSecret:    "sweep-secret",
	}

	srv := New(
		service.NewTaskService(taskRepo, reminderRepo),
		service.NewCourseService(courseRepo, reminderRepo),
		service.NewReminderService(reminderRepo, tokenRepo),
		service.NewDispatchService(reminderRepo, tokenRepo, sender, push.Credentials{}, logger),
		service.NewBoostService(boostRepo),
		cfg,
		logger,
	)
	return &fixture{handler: srv.Handler(), sender: sender, db: db}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func realisticToken(seed string) string {
	return seed + strings.Repeat("x", 140)
}

func TestTaskEndpoints(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/tasks", map[string]interface{}{
		"title":    "Finish essay",
		"priority": "High",
		"category": "Learning",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	decode(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "default-user", created.UserID)

	rec = f.do(t, http.MethodPost, "/tasks", map[string]interface{}{"title": "Buy groceries"})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("list newest first", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var tasks []model.Task
		decode(t, rec, &tasks)
		require.Len(t, tasks, 2)
		assert.Equal(t, "Buy groceries", tasks[0].Title)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/tasks", map[string]interface{}{"priority": "Low"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("toggle completed", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/tasks/"+created.ID, map[string]interface{}{"completed": true})
		require.Equal(t, http.StatusOK, rec.Code)
		var updated model.Task
		decode(t, rec, &updated)
		assert.True(t, updated.Completed)
		require.NotNil(t, updated.CompletedAt)

		rec = f.do(t, http.MethodPatch, "/tasks/"+created.ID, map[string]interface{}{"completed": false})
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &updated)
		assert.False(t, updated.Completed)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("unknown update field rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/tasks/"+created.ID, map[string]interface{}{"streak": 7})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch absent id 404s", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/tasks/nope", map[string]interface{}{"completed": true})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete then repeat delete", func(t *testing.T) {
		rec := f.do(t, http.MethodDelete, "/tasks/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]bool
		decode(t, rec, &out)
		assert.True(t, out["success"])

		rec = f.do(t, http.MethodDelete, "/tasks/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCourseEndpoints(t *testing.T) {
	f := newTestServer(t)

	course := func(name, day, start, end string) map[string]interface{} {
		return map[string]interface{}{
			"name": name, "lecturer": "Dr. Ada", "room": "B204",
			"day": day, "startTime": start, "endTime": end,
		}
	}

	// Thursday sorts before Tuesday alphabetically; the listing must use
	// calendar order instead.
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/courses", course("Databases", "Thursday", "09:00", "10:30")).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/courses", course("Algorithms", "Tuesday", "09:00", "10:30")).Code)
	// Two courses with identical day and times must both be kept.
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/courses", course("Lab A", "Friday", "13:00", "14:00")).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/courses", course("Lab B", "Friday", "13:00", "14:00")).Code)

	rec := f.do(t, http.MethodGet, "/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []model.Course
	decode(t, rec, &courses)
	require.Len(t, courses, 4)
	assert.Equal(t, "Algorithms", courses[0].Name)
	assert.Equal(t, "Databases", courses[1].Name)
	assert.Equal(t, "Lab A", courses[2].Name)
	assert.Equal(t, "Lab B", courses[3].Name)

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/courses", map[string]interface{}{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown day rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/courses", course("Yoga", "Caturday", "09:00", "10:00"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := f.do(t, http.MethodDelete, "/courses/"+courses[0].ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = f.do(t, http.MethodDelete, "/courses/"+courses[0].ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReminderFlow(t *testing.T) {
	f := newTestServer(t)
	token := realisticToken("tok")

	rec := f.do(t, http.MethodPost, "/notifications/token", map[string]interface{}{
		"token":      token,
		"deviceName": "pixel",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("past schedule time rejected without a row", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/notifications/schedule", map[string]interface{}{
			"taskId":       "task-1",
			"title":        "Essay due",
			"scheduleTime": time.Now().Add(-time.Minute).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		listRec := f.do(t, http.MethodGet, "/notifications/schedule", nil)
		var out struct {
			Notifications []model.Reminder `json:"notifications"`
		}
		decode(t, listRec, &out)
		assert.Empty(t, out.Notifications)
	})

	// Schedule for tomorrow 08:00 (the client computed fire time).
	fireAt := time.Now().Add(24 * time.Hour)
	rec = f.do(t, http.MethodPost, "/notifications/schedule", map[string]interface{}{
		"taskId":       "task-1",
		"title":        "Essay due",
		"body":         "Due at 09:00",
		"scheduleTime": fireAt.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var scheduled struct {
		Success  bool   `json:"success"`
		ID       string `json:"id"`
		HasToken bool   `json:"hasToken"`
	}
	decode(t, rec, &scheduled)
	assert.True(t, scheduled.Success)
	assert.True(t, scheduled.HasToken, "registry token should have been resolved")

	rec = f.do(t, http.MethodGet, "/notifications/schedule?status=Pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending struct {
		Notifications []model.Reminder `json:"notifications"`
	}
	decode(t, rec, &pending)
	require.Len(t, pending.Notifications, 1)
	assert.Equal(t, scheduled.ID, pending.Notifications[0].ID)

	// Let the fire time pass, then run a sweep.
	require.NoError(t, f.db.Model(&model.Reminder{}).
		Where("id = ?", scheduled.ID).
		Update("scheduled_at", time.Now().Add(-time.Minute)).Error)

	rec = f.do(t, http.MethodPost, "/notifications/dispatch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sweep struct {
		Success   bool `json:"success"`
		Processed int  `json:"processed"`
		Results   []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"results"`
	}
	decode(t, rec, &sweep)
	assert.True(t, sweep.Success)
	assert.Equal(t, 1, sweep.Processed)
	require.Len(t, sweep.Results, 1)
	assert.Equal(t, model.StatusSent, sweep.Results[0].Status)

	// The provider received exactly one send with the reminder's content.
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Essay due", f.sender.sent[0].Title)
	assert.Equal(t, "Due at 09:00", f.sender.sent[0].Body)

	rec = f.do(t, http.MethodGet, "/notifications/schedule?status=Sent", nil)
	var sent struct {
		Notifications []model.Reminder `json:"notifications"`
	}
	decode(t, rec, &sent)
	require.Len(t, sent.Notifications, 1)
	assert.NotNil(t, sent.Notifications[0].SentAt)
}

func TestDispatchAuth(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/notifications/dispatch", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/notifications/dispatch", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/notifications/dispatch", nil, "Authorization", "Bearer sweep-secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]interface{}
	decode(t, rec, &out)
	assert.Equal(t, true, out["success"])
}

func TestSendEndpoint(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/notifications/send", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/notifications/send", map[string]interface{}{
		"token": realisticToken("tok"),
		"title": "Hello",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	decode(t, rec, &out)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.MessageID)
	require.Len(t, f.sender.sent, 1)
}

func TestDailyBoost(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/daily-boost", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Mood  *model.DailyMood `json:"mood"`
		Quote *model.Quote     `json:"quote"`
	}
	decode(t, rec, &out)
	assert.Nil(t, out.Mood)
	require.NotNil(t, out.Quote)
	assert.NotEmpty(t, out.Quote.Text)
}

func TestCORSPreflight(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodOptions, "/tasks", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestDeleteCascadesPendingReminders(t *testing.T) {
	f := newTestServer(t)
	token := realisticToken("tok")

	rec := f.do(t, http.MethodPost, "/tasks", map[string]interface{}{"title": "Trip prep"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task model.Task
	decode(t, rec, &task)

	rec = f.do(t, http.MethodPost, "/notifications/schedule", map[string]interface{}{
		"taskId":       task.ID,
		"title":        "Trip prep",
		"scheduleTime": time.Now().Add(time.Hour).Format(time.RFC3339),
		"token":        token,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/tasks/"+task.ID, nil).Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/notifications/schedule?status=%s", model.StatusPending), nil)
	var out struct {
		Notifications []model.Reminder `json:"notifications"`
	}
	decode(t, rec, &out)
	assert.Empty(t, out.Notifications)
}
