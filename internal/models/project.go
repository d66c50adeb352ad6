package models

import "time"

// Project is a unit of work owned by exactly one user.
type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"size:100;index;not null" json:"user_id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;default:planning" json:"status"`
	Priority    string     `gorm:"size:20;default:medium" json:"priority"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	Budget      *float64   `json:"budget"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Tasks      []Task           `gorm:"constraint:OnDelete:CASCADE;" json:"tasks,omitempty"`
	Milestones []Milestone      `gorm:"constraint:OnDelete:CASCADE;" json:"milestones,omitempty"`
	Insights   []ProjectInsight `gorm:"constraint:OnDelete:CASCADE;" json:"insights,omitempty"`
}

func (Project) TableName() string { return "projects" }
