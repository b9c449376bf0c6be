package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mood-booster/internal/model"
	"mood-booster/internal/repository"
	"mood-booster/internal/testutil"
)

func newReminderService(t *testing.T) (*ReminderService, *repository.TokenRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	tokenRepo := repository.NewTokenRepository(db)
	return NewReminderService(repository.NewReminderRepository(db), tokenRepo), tokenRepo
}

func realisticToken(seed string) string {
	return seed + strings.Repeat("x", 140)
}

func TestSchedule_Validation(t *testing.T) {
	svc, _ := newReminderService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ScheduleInput
	}{
		{"missing task id", ScheduleInput{UserID: "u1", Title: "t", ScheduleTime: time.Now().Add(time.Hour)}},
		{"missing title", ScheduleInput{UserID: "u1", TaskID: "t1", ScheduleTime: time.Now().Add(time.Hour)}},
		{"zero time", ScheduleInput{UserID: "u1", TaskID: "t1", Title: "t"}},
		{"past time", ScheduleInput{UserID: "u1", TaskID: "t1", Title: "t", ScheduleTime: time.Now().Add(-time.Minute)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Schedule(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	// None of the rejected inputs created a row.
	reminders, err := svc.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestSchedule_CreatesPending(t *testing.T) {
	svc, _ := newReminderService(t)
	ctx := context.Background()

	fireAt := time.Now().Add(time.Hour)
	reminder, err := svc.Schedule(ctx, ScheduleInput{
		TaskID:       "task-1",
		UserID:       "u1",
		Title:        "Math homework",
		ScheduleTime: fireAt,
		Token:        realisticToken("tok"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, reminder.Status)
	require.NotNil(t, reminder.Token)
	assert.Equal(t, realisticToken("tok"), *reminder.Token)
	assert.Equal(t, "Don't forget: Math homework", reminder.Body)
	assert.Equal(t, model.Payload{"taskId": "task-1", "url": "/"}, reminder.Data)

	reminders, err := svc.List(ctx, "u1", model.StatusPending)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, reminder.ID, reminders[0].ID)
}

func TestSchedule_TokenFallback(t *testing.T) {
	svc, tokenRepo := newReminderService(t)
	ctx := context.Background()

	t.Run("registry token used when caller token unusable", func(t *testing.T) {
		registered := realisticToken("reg")
		require.NoError(t, tokenRepo.Upsert(ctx, "u1", registered, nil, time.Now()))

		reminder, err := svc.Schedule(ctx, ScheduleInput{
			TaskID: "task-1", UserID: "u1", Title: "t",
			ScheduleTime: time.Now().Add(time.Hour),
			Token:        "permission-granted",
		})
		require.NoError(t, err)
		require.NotNil(t, reminder.Token)
		assert.Equal(t, registered, *reminder.Token)
	})

	t.Run("nil token when registry empty", func(t *testing.T) {
		reminder, err := svc.Schedule(ctx, ScheduleInput{
			TaskID: "task-2", UserID: "nobody", Title: "t",
			ScheduleTime: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Nil(t, reminder.Token)
	})
}

func TestSchedule_MostRecentTokenWins(t *testing.T) {
	svc, tokenRepo := newReminderService(t)
	ctx := context.Background()

	older := realisticToken("old")
	newer := realisticToken("new")
	require.NoError(t, tokenRepo.Upsert(ctx, "u1", older, nil, time.Now().Add(-time.Hour)))
	require.NoError(t, tokenRepo.Upsert(ctx, "u1", newer, nil, time.Now()))

	reminder, err := svc.Schedule(ctx, ScheduleInput{
		TaskID: "task-1", UserID: "u1", Title: "t",
		ScheduleTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, reminder.Token)
	assert.Equal(t, newer, *reminder.Token)
}
