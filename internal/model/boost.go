package model

import "time"

// Quote is a motivational line shown on the home screen.
type Quote struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Text      string    `json:"text"`
	Author    *string   `json:"author"`
	Category  *string   `json:"category"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyMood records the user's mood for one calendar day.
type DailyMood struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"uniqueIndex" json:"date"`
	Mood      string    `json:"mood"`
	Note      *string   `json:"note"`
	Energy    int       `json:"energy"`
	CreatedAt time.Time `json:"createdAt"`
}
