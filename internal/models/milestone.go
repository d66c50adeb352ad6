package models

import "time"

type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     time.Time  `gorm:"type:date;index;not null" json:"due_date"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"` // set only on the false -> true transition
	CreatedAt   time.Time  `json:"created_at"`
}

func (Milestone) TableName() string { return "milestones" }
