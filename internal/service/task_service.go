package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mood-booster/internal/model"
	"mood-booster/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	UserID      string
	Title       string
	Description *string
	Date        *time.Time
	DueType     string
	Time        *string
	Priority    string
	Category    string
}

// TaskUpdate enumerates the fields a PATCH may change. Nil means "leave as
// is"; unknown request fields are rejected at the HTTP boundary.
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	DueType     *string    `json:"dueType"`
	Time        *string    `json:"time"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	Completed   *bool      `json:"completed"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	reminderRepo *repository.ReminderRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, reminderRepo *repository.ReminderRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, reminderRepo: reminderRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, invalidf("title is required")
	}
	if input.DueType == "" {
		input.DueType = model.DueSpecificDate
	}
	if !model.ValidDueType(input.DueType) {
		return nil, invalidf("unknown due type %q", input.DueType)
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(input.Priority) {
		return nil, invalidf("unknown priority %q", input.Priority)
	}
	if input.Category == "" {
		input.Category = "Other"
	}

	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		DueType:     input.DueType,
		Time:        input.Time,
		Priority:    input.Priority,
		Category:    input.Category,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.List(ctx)
}

// UpdateTask applies a validated partial update. Toggling completed keeps
// completedAt in lockstep: true sets it to the toggle time, false clears it.
func (s *TaskService) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*model.Task, error) {
	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Title != nil {
		if *update.Title == "" {
			return nil, invalidf("title cannot be empty")
		}
		changes["title"] = *update.Title
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Date != nil {
		changes["date"] = *update.Date
	}
	if update.DueType != nil {
		if !model.ValidDueType(*update.DueType) {
			return nil, invalidf("unknown due type %q", *update.DueType)
		}
		changes["due_type"] = *update.DueType
	}
	if update.Time != nil {
		changes["time"] = *update.Time
	}
	if update.Priority != nil {
		if !model.ValidPriority(*update.Priority) {
			return nil, invalidf("unknown priority %q", *update.Priority)
		}
		changes["priority"] = *update.Priority
	}
	if update.Category != nil {
		changes["category"] = *update.Category
	}
	if update.Completed != nil {
		changes["completed"] = *update.Completed
		if *update.Completed {
			changes["completed_at"] = time.Now()
		} else {
			changes["completed_at"] = nil
		}
	}

	return s.taskRepo.Update(ctx, id, changes)
}

// DeleteTask removes a task and cancels its not-yet-dispatched reminders.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.reminderRepo.DeletePendingByTask(ctx, id)
}
