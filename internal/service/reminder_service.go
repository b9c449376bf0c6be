package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mood-booster/internal/model"
	"mood-booster/internal/push"
	"mood-booster/internal/repository"
)

const listRemindersLimit = 50

// ScheduleInput represents a request to schedule a future push notification.
type ScheduleInput struct {
	TaskID       string
	UserID       string
	Title        string
	Body         string
	Data         map[string]string
	Token        string
	ScheduleTime time.Time
}

// ReminderService persists future reminders. No notification is sent at
// scheduling time.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	tokenRepo    *repository.TokenRepository
}

func NewReminderService(reminderRepo *repository.ReminderRepository, tokenRepo *repository.TokenRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo, tokenRepo: tokenRepo}
}

// Schedule validates the request and creates a Pending reminder. The fire
// time must be strictly in the future; it is not re-checked afterwards, a
// reminder that becomes due is simply picked up by the next sweep.
func (s *ReminderService) Schedule(ctx context.Context, input ScheduleInput) (*model.Reminder, error) {
	if input.TaskID == "" || input.Title == "" {
		return nil, invalidf("taskId and title are required")
	}
	if input.ScheduleTime.IsZero() {
		return nil, invalidf("scheduleTime is required")
	}
	if !input.ScheduleTime.After(time.Now()) {
		return nil, invalidf("schedule time must be in the future")
	}

	var token *string
	if push.TokenUsable(input.Token) {
		token = &input.Token
	} else {
		latest, err := s.tokenRepo.LatestByUser(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if latest != "" {
			token = &latest
		}
	}

	body := input.Body
	if body == "" {
		body = fmt.Sprintf("Don't forget: %s", input.Title)
	}

	data := input.Data
	if data == nil {
		data = map[string]string{"taskId": input.TaskID, "url": "/"}
	}

	reminder := model.Reminder{
		ID:          uuid.NewString(),
		TaskID:      input.TaskID,
		UserID:      input.UserID,
		Token:       token,
		Title:       input.Title,
		Body:        body,
		Data:        data,
		ScheduledAt: input.ScheduleTime,
		Status:      model.StatusPending,
	}

	if err := s.reminderRepo.Create(ctx, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// List returns a user's reminders, soonest first, optionally filtered by
// status.
func (s *ReminderService) List(ctx context.Context, userID, status string) ([]model.Reminder, error) {
	return s.reminderRepo.ListByUser(ctx, userID, status, listRemindersLimit)
}

// SaveToken upserts a (user, token) registry entry with the device label and
// last-seen time.
func (s *ReminderService) SaveToken(ctx context.Context, userID, token string, deviceName *string, seenAt time.Time) error {
	if token == "" {
		return invalidf("token is required")
	}
	return s.tokenRepo.Upsert(ctx, userID, token, deviceName, seenAt)
}
