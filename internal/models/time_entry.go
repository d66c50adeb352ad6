package models

import "time"

// TimeEntry is an immutable record of hours logged against a task.
type TimeEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index;not null" json:"task_id"`
	UserID      string    `gorm:"size:100;index;not null" json:"user_id"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"type:date;index;not null" json:"date"` // day the work applies to
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (TimeEntry) TableName() string { return "time_entries" }
