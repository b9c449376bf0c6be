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

// TokenRepository is the device token registry.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert refreshes the (user, token) pair, updating the device name and
// last-seen timestamp when the pair already exists.
func (r *TokenRepository) Upsert(ctx context.Context, userID, token string, deviceName *string, seenAt time.Time) error {
	db := r.db.WithContext(ctx)

	var existing model.DeviceToken
	err := db.Where("user_id = ? AND token = ?", userID, token).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"device_name":  deviceName,
			"last_seen_at": seenAt,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update device token: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := model.DeviceToken{
			ID:         uuid.NewString(),
			UserID:     userID,
			Token:      token,
			DeviceName: deviceName,
			LastSeenAt: seenAt,
		}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("create device token: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find device token: %w", err)
	}
}

// LatestByUser returns the most recently seen token for a user, or "" when
// the user has never registered one.
func (r *TokenRepository) LatestByUser(ctx context.Context, userID string) (string, error) {
	var record model.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_seen_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find latest token: %w", err)
	}
	return record.Token, nil
}
