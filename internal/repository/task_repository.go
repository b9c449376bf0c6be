package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mood-booster/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns all tasks, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies the given column changes and reloads the row.
func (r *TaskRepository) Update(ctx context.Context, id string, changes map[string]interface{}) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	changes["updated_at"] = time.Now()
	if err := db.Model(&model.Task{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
