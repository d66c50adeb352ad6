package models

import "time"

// ProjectInsight is an append-only AI narrative attached to a project.
type ProjectInsight struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	InsightType string    `gorm:"size:100;not null" json:"insight_type"` // risk_assessment, progress_summary, resource_analysis, ...
	Content     string    `gorm:"type:text" json:"content"`
	ModelUsed   string    `gorm:"size:100" json:"model_used"`
	GeneratedAt time.Time `gorm:"index" json:"generated_at"`
	RequestedBy string    `gorm:"size:255" json:"requested_by"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ProjectInsight) TableName() string { return "project_insights" }
