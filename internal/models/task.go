package models

import "time"

type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProjectID      uint       `gorm:"index;not null" json:"project_id"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"size:20;index;default:todo" json:"status"`
	Priority       string     `gorm:"size:20;default:medium" json:"priority"`
	AssignedTo     string     `gorm:"size:100" json:"assigned_to"`
	DueDate        *time.Time `gorm:"type:date;index" json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    float64    `gorm:"not null;default:0" json:"actual_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	TimeEntries []TimeEntry `gorm:"constraint:OnDelete:CASCADE;" json:"time_entries,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// IsOverdue reports whether the task is past due on today and not done.
func (t *Task) IsOverdue(today time.Time) bool {
	return t.DueDate != nil && DateOf(*t.DueDate).Before(DateOf(today)) && t.Status != TaskStatusDone
}
