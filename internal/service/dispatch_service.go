package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"mood-booster/internal/model"
	"mood-booster/internal/push"
	"mood-booster/internal/repository"
)

const (
	defaultBatchSize = 25
	maxBatchSize     = 100

	errMissingToken = "Missing FCM token"
	defaultSendBody = "You have a pending task"
)

// Outcome records what happened to one reminder during a sweep.
type Outcome struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SweepResult summarizes one dispatcher invocation.
type SweepResult struct {
	Processed int       `json:"processed"`
	Results   []Outcome `json:"results"`
}

// DispatchService finds due reminders and pushes them out. Per-reminder
// failures never abort the batch; only missing provider credentials fail the
// whole call, before any reminder is touched.
type DispatchService struct {
	reminderRepo *repository.ReminderRepository
	tokenRepo    *repository.TokenRepository
	sender       push.Sender
	creds        push.Credentials
	logger       *log.Logger
}

func NewDispatchService(
	reminderRepo *repository.ReminderRepository,
	tokenRepo *repository.TokenRepository,
	sender push.Sender,
	creds push.Credentials,
	logger *log.Logger,
) *DispatchService {
	return &DispatchService{
		reminderRepo: reminderRepo,
		tokenRepo:    tokenRepo,
		sender:       sender,
		creds:        creds,
		logger:       logger,
	}
}

// Sweep processes up to limit due reminders, oldest fire time first. Each row
// is claimed Pending -> Sending before the send, so concurrent sweeps never
// double-send; a row claimed elsewhere is skipped.
func (s *DispatchService) Sweep(ctx context.Context, limit int) (*SweepResult, error) {
	if s.sender == nil {
		return nil, &NotConfiguredError{MissingEnv: s.creds.Missing()}
	}

	if limit <= 0 {
		limit = defaultBatchSize
	}
	if limit > maxBatchSize {
		limit = maxBatchSize
	}

	due, err := s.reminderRepo.ListDue(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Results: []Outcome{}}
	for _, reminder := range due {
		claimed, err := s.reminderRepo.Claim(ctx, reminder.ID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}

		outcome := s.dispatchOne(ctx, reminder)
		result.Results = append(result.Results, outcome)
	}

	result.Processed = len(result.Results)
	return result, nil
}

func (s *DispatchService) dispatchOne(ctx context.Context, reminder model.Reminder) Outcome {
	token, err := s.resolveToken(ctx, reminder)
	if err != nil {
		return s.fail(ctx, reminder.ID, err.Error())
	}
	if token == "" {
		return s.fail(ctx, reminder.ID, errMissingToken)
	}

	body := reminder.Body
	if body == "" {
		body = defaultSendBody
	}

	if _, err := s.sender.Send(ctx, push.Message{
		Token: token,
		Title: reminder.Title,
		Body:  body,
		Data:  reminder.Data,
	}); err != nil {
		return s.fail(ctx, reminder.ID, err.Error())
	}

	sentAt := time.Now()
	if err := s.reminderRepo.MarkSent(ctx, reminder.ID, sentAt); err != nil {
		s.logger.Error("finalize reminder", "id", reminder.ID, "err", err)
		return Outcome{ID: reminder.ID, Status: model.StatusFailed, Error: err.Error()}
	}

	s.logger.Info("reminder sent", "id", reminder.ID, "user", reminder.UserID)
	return Outcome{ID: reminder.ID, Status: model.StatusSent}
}

// resolveToken prefers the token stored on the reminder, falling back to the
// user's most recently seen registry token.
func (s *DispatchService) resolveToken(ctx context.Context, reminder model.Reminder) (string, error) {
	if reminder.Token != nil && push.TokenUsable(*reminder.Token) {
		return *reminder.Token, nil
	}
	latest, err := s.tokenRepo.LatestByUser(ctx, reminder.UserID)
	if err != nil {
		return "", err
	}
	if !push.TokenUsable(latest) {
		return "", nil
	}
	return latest, nil
}

func (s *DispatchService) fail(ctx context.Context, id, message string) Outcome {
	if err := s.reminderRepo.MarkFailed(ctx, id, message); err != nil {
		s.logger.Error("finalize reminder", "id", id, "err", err)
	}
	s.logger.Warn("reminder failed", "id", id, "reason", message)
	return Outcome{ID: id, Status: model.StatusFailed, Error: message}
}

// SendDirect pushes an immediate notification, bypassing the reminder store.
func (s *DispatchService) SendDirect(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if s.sender == nil {
		return "", &NotConfiguredError{MissingEnv: s.creds.Missing()}
	}
	if title == "" {
		title = "🎯 Task Reminder"
	}
	if body == "" {
		body = defaultSendBody
	}
	return s.sender.Send(ctx, push.Message{
		Token: token,
		Title: title,
		Body:  body,
		Data:  data,
	})
}
