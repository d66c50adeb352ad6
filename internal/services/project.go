package services

import (
	"errors"
	"sort"
	"time"

	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=planning active on_hold completed archived"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=due_date priority"`
}

type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description"`
	Status      string   `json:"status" binding:"omitempty,oneof=planning active on_hold completed archived"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   string   `json:"start_date"`
	DueDate     string   `json:"due_date"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
}

// UpdateProjectRequest applies only the fields that are present.
type UpdateProjectRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" binding:"omitempty,oneof=planning active on_hold completed archived"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   *string  `json:"start_date"`
	DueDate     *string  `json:"due_date"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
}

type ProjectSummary struct {
	models.Project
	Progress int `json:"progress"`
}

type ProjectDetail struct {
	Project        models.Project `json:"project"`
	Progress       int            `json:"progress"`
	EstimatedHours float64        `json:"estimated_hours"`
	ActualHours    float64        `json:"actual_hours"`
}

var priorityRank = map[string]int{
	models.PriorityCritical: 0,
	models.PriorityHigh:     1,
	models.PriorityMedium:   2,
	models.PriorityLow:      3,
}

func rankPriority(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// ownedProject loads a project only if userID owns it.
func ownedProject(db *gorm.DB, userID string, projectID uint) (*models.Project, error) {
	var project models.Project
	err := db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "project"}
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func ownedProjectIDs(db *gorm.DB, userID string) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Project{}).Where("user_id = ?", userID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// List returns the user's projects with progress, sorted by due date
// (undated last) or by priority.
func (s *ProjectService) List(userID string, req *ProjectListRequest) ([]ProjectSummary, error) {
	query := s.db.Where("user_id = ?", userID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var projects []models.Project
	if err := query.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	if req.SortBy == "priority" {
		sort.SliceStable(projects, func(i, j int) bool {
			return rankPriority(projects[i].Priority) < rankPriority(projects[j].Priority)
		})
	} else {
		sort.SliceStable(projects, func(i, j int) bool {
			a, b := projects[i].DueDate, projects[j].DueDate
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.Before(*b)
		})
	}

	items := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		progress := ProgressPercentage(p.Tasks)
		p.Tasks = nil
		items = append(items, ProjectSummary{Project: p, Progress: progress})
	}
	return items, nil
}

func (s *ProjectService) Get(userID string, id uint) (*ProjectDetail, error) {
	var project models.Project
	err := s.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC, id ASC") }).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "project"}
	}
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: project, Progress: ProgressPercentage(project.Tasks)}
	for _, t := range project.Tasks {
		if t.EstimatedHours != nil {
			detail.EstimatedHours += *t.EstimatedHours
		}
		detail.ActualHours += t.ActualHours
	}
	return detail, nil
}

func (s *ProjectService) Create(userID string, req *CreateProjectRequest) (*models.Project, error) {
	startDate, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDateField("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   startDate,
		DueDate:     dueDate,
		Budget:      req.Budget,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Update(userID string, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := ownedProject(s.db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.StartDate != nil {
		d, err := parseDateField("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = d
	}
	if req.DueDate != nil {
		d, err := parseDateField("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = d
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return ownedProject(s.db, userID, id)
}

// Delete removes the project together with its tasks, their time entries,
// milestones and insights.
func (s *ProjectService) Delete(userID string, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedProject(tx, userID, id); err != nil {
			return err
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		for _, child := range []interface{}{&models.Task{}, &models.Milestone{}, &models.ProjectInsight{}} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// parseDateField returns nil for an empty value and a ValidationError for a malformed one.
func parseDateField(field, value string) (*time.Time, error) {
	d, err := models.ParseOptionalDate(value)
	if err != nil {
		return nil, &ValidationError{Message: field + " must be YYYY-MM-DD"}
	}
	return d, nil
}
