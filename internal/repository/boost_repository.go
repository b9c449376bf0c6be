package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mood-booster/internal/model"
)

// BoostRepository reads the daily-boost content tables.
type BoostRepository struct {
	db *gorm.DB
}

func NewBoostRepository(db *gorm.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

func (r *BoostRepository) ActiveQuotes(ctx context.Context) ([]model.Quote, error) {
	var quotes []model.Quote
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// MoodByDate returns the mood recorded for the given calendar day, or nil.
func (r *BoostRepository) MoodByDate(ctx context.Context, date time.Time) (*model.DailyMood, error) {
	var mood model.DailyMood
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&mood).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find daily mood: %w", err)
	}
	return &mood, nil
}

var starterQuotes = []struct {
	text     string
	category string
}{
	{"Small steps every day add up to big results.", "Productivity"},
	{"Focus on progress, not perfection.", "Mindset"},
	{"Discipline is choosing what you want most over what you want now.", "Discipline"},
	{"One task at a time is how you win the day.", "Focus"},
	{"Your future is created by what you do today, not tomorrow.", "Motivation"},
	{"Bugs are just test cases you haven't written yet.", "Software Engineering"},
	{"Read the docs before you debug for hours.", "Study Tips"},
	{"Good algorithms save more time than faster hardware.", "Algorithms"},
}

// SeedQuotes inserts the starter quote set when the table is empty.
func (r *BoostRepository) SeedQuotes(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Quote{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}
	if count > 0 {
		return nil
	}

	author := "Unknown"
	for _, q := range starterQuotes {
		category := q.category
		quote := model.Quote{
			ID:       uuid.NewString(),
			Text:     q.text,
			Author:   &author,
			Category: &category,
			IsActive: true,
		}
		if err := db.Create(&quote).Error; err != nil {
			return fmt.Errorf("seed quote: %w", err)
		}
	}
	return nil
}
