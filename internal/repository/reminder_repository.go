package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mood-booster/internal/model"
)

// ReminderRepository stores scheduled push notifications.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

// ListByUser returns up to limit reminders for a user, soonest first,
// optionally filtered by status.
func (r *ReminderRepository) ListByUser(ctx context.Context, userID, status string, limit int) ([]model.Reminder, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var reminders []model.Reminder
	if err := db.Order("scheduled_at ASC").Limit(limit).Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// ListDue returns up to limit Pending reminders whose fire time has passed,
// oldest fire time first.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", model.StatusPending, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return reminders, nil
}

// Claim atomically moves a reminder from Pending to Sending. It reports false
// when another sweep already claimed the row.
func (r *ReminderRepository) Claim(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":     model.StatusSending,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("claim reminder: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkSent finalizes a claimed reminder as delivered.
func (r *ReminderRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.StatusSent,
			"sent_at":    sentAt,
			"error":      nil,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// MarkFailed finalizes a reminder with the delivery error.
func (r *ReminderRepository) MarkFailed(ctx context.Context, id, message string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.StatusFailed,
			"error":      message,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("mark reminder failed: %w", err)
	}
	return nil
}

// DeletePendingByTask removes not-yet-dispatched reminders for a deleted
// subject. Terminal and in-flight rows are kept as history.
func (r *ReminderRepository) DeletePendingByTask(ctx context.Context, taskID string) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND status = ?", taskID, model.StatusPending).
		Delete(&model.Reminder{}).Error; err != nil {
		return fmt.Errorf("delete pending reminders: %w", err)
	}
	return nil
}
