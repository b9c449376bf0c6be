package model

import "time"

// Course is a weekly recurring class schedule entry. Purely descriptive: two
// courses may overlap freely.
type Course struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"userId"`
	Name      string    `json:"name"`
	Lecturer  string    `json:"lecturer"`
	Room      string    `json:"room"`
	Day       string    `json:"day"`
	StartTime string    `json:"startTime"` // HH:MM
	EndTime   string    `json:"endTime"`   // HH:MM
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Weekdays in schedule order, Monday first.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ValidWeekday reports whether day names one of the seven weekdays.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
