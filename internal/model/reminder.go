package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Reminder statuses. Sending is the dispatcher's claim marker: a sweep moves a
// row Pending -> Sending before touching the push provider, so a concurrent
// sweep can never pick up the same reminder. Sent and Failed are terminal.
const (
	StatusPending = "Pending"
	StatusSending = "Sending"
	StatusSent    = "Sent"
	StatusFailed  = "Failed"
)

// Payload carries the data attached to a push message. FCM only accepts
// string keys and values, so the payload is typed accordingly instead of an
// arbitrary JSON blob.
type Payload map[string]string

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return string(b), nil
}

func (p *Payload) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan payload: unsupported type %T", src)
	}
	if len(b) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(b, p)
}

// Reminder is a one-time future push notification scheduled on behalf of a
// task or course. Created in Pending, mutated exactly once by the dispatcher.
type Reminder struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	TaskID      string     `gorm:"index" json:"taskId"`
	UserID      string     `gorm:"index" json:"userId"`
	Token       *string    `json:"token"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Data        Payload    `json:"data"`
	ScheduledAt time.Time  `gorm:"index" json:"scheduledAt"`
	Status      string     `gorm:"default:Pending;index" json:"status"`
	Error       *string    `json:"error"`
	SentAt      *time.Time `json:"sentAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
