package model

import "time"

// Due types classify whether a task has a concrete deadline or should be done
// as soon as possible.
const (
	DueSpecificDate = "SPECIFIC_DATE"
	DueASAP         = "ASAP"
)

// Task priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Task represents a single item on the user's list.
type Task struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"index" json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	DueType     string     `gorm:"default:SPECIFIC_DATE" json:"dueType"`
	Time        *string    `json:"time"` // HH:MM, local to the user
	Priority    string     `gorm:"default:Medium" json:"priority"`
	Category    string     `gorm:"default:Other" json:"category"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ValidDueType reports whether d is a known due type.
func ValidDueType(d string) bool {
	return d == DueSpecificDate || d == DueASAP
}
