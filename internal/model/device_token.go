package model

import "time"

// DeviceToken maps a user to an FCM delivery token for one installed client.
// Upserted on the (user, token) pair; the most recently seen token per user is
// the dispatch fallback when a reminder carries no usable token of its own.
type DeviceToken struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"uniqueIndex:idx_user_token" json:"userId"`
	Token      string    `gorm:"uniqueIndex:idx_user_token" json:"token"`
	DeviceName *string   `json:"deviceName"`
	LastSeenAt time.Time `gorm:"index" json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
