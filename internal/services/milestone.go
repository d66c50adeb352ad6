package services

import (
	"errors"
	"time"

	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

type MilestoneService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{db: db, now: time.Now}
}

type CreateMilestoneRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"required"`
}

// List returns milestones of every owned project, earliest due first.
func (s *MilestoneService) List(userID string) ([]models.Milestone, error) {
	milestones := []models.Milestone{}
	err := s.db.Joins("JOIN projects ON projects.id = milestones.project_id").
		Where("projects.user_id = ?", userID).
		Order("milestones.due_date ASC, milestones.id ASC").
		Find(&milestones).Error
	return milestones, err
}

func (s *MilestoneService) Create(userID string, req *CreateMilestoneRequest) (*models.Milestone, error) {
	if _, err := ownedProject(s.db, userID, req.ProjectID); err != nil {
		return nil, err
	}
	dueDate, err := models.ParseDate(req.DueDate)
	if err != nil {
		return nil, &ValidationError{Message: "due_date must be YYYY-MM-DD"}
	}

	milestone := models.Milestone{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	}
	if err := s.db.Create(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// Complete marks the milestone done. completed_at is stamped only on the
// first transition; completing again leaves it unchanged.
func (s *MilestoneService) Complete(userID string, id uint) (*models.Milestone, error) {
	var milestone models.Milestone
	err := s.db.Joins("JOIN projects ON projects.id = milestones.project_id").
		Where("milestones.id = ? AND projects.user_id = ?", id, userID).
		First(&milestone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "milestone"}
	}
	if err != nil {
		return nil, err
	}
	if milestone.Completed {
		return &milestone, nil
	}

	now := s.now()
	res := s.db.Model(&models.Milestone{}).
		Where("id = ? AND completed = ?", milestone.ID, false).
		Updates(map[string]interface{}{"completed": true, "completed_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Completed concurrently; return the stored stamp.
		if err := s.db.First(&milestone, milestone.ID).Error; err != nil {
			return nil, err
		}
		return &milestone, nil
	}
	milestone.Completed = true
	milestone.CompletedAt = &now
	return &milestone, nil
}
