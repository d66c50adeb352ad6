package services

import (
	"errors"

	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	ProjectID      uint     `json:"project_id" binding:"required"`
	Title          string   `json:"title" binding:"required,max=200"`
	Description    string   `json:"description"`
	Status         string   `json:"status" binding:"omitempty,oneof=todo in_progress review done blocked"`
	Priority       string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssignedTo     string   `json:"assigned_to" binding:"max=100"`
	DueDate        string   `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours" binding:"omitempty,gte=0"`
}

type MoveTaskRequest struct {
	Status string `json:"status" form:"status" binding:"required,oneof=todo in_progress review done blocked"`
}

type LogTimeRequest struct {
	Hours       float64 `json:"hours" form:"hours" binding:"required,gt=0"`
	Description string  `json:"description" form:"description"`
	Date        string  `json:"date" form:"date" binding:"required"`
}

type TaskBoard struct {
	Columns  map[string][]models.Task `json:"columns"`
	Projects []models.Project         `json:"projects"`
}

type LogTimeResult struct {
	Entry       models.TimeEntry `json:"entry"`
	ActualHours float64          `json:"actual_hours"`
}

func ownedTask(db *gorm.DB, userID string, taskID uint) (*models.Task, error) {
	var task models.Task
	err := db.Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.id = ? AND projects.user_id = ?", taskID, userID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "task"}
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Board groups every task of the user's projects by status.
func (s *TaskService) Board(userID string) (*TaskBoard, error) {
	var projects []models.Project
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	if len(projects) > 0 {
		ids := make([]uint, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		if err := s.db.Where("project_id IN ?", ids).Order("id ASC").Find(&tasks).Error; err != nil {
			return nil, err
		}
	}

	return &TaskBoard{Columns: GroupTasksByStatus(tasks), Projects: projects}, nil
}

func (s *TaskService) Get(userID string, id uint) (*models.Task, error) {
	task, err := ownedTask(s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Where("task_id = ?", task.ID).Order("date DESC, id DESC").Find(&task.TimeEntries).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Create(userID string, req *CreateTaskRequest) (*models.Task, error) {
	if _, err := ownedProject(s.db, userID, req.ProjectID); err != nil {
		return nil, err
	}
	dueDate, err := parseDateField("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedTo:     req.AssignedTo,
		DueDate:        dueDate,
		EstimatedHours: req.EstimatedHours,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Move(userID string, id uint, status string) (*models.Task, error) {
	task, err := ownedTask(s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(task).Update("status", status).Error; err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}

// LogTime inserts the entry and increments actual_hours in one transaction;
// either both are applied or neither is.
func (s *TaskService) LogTime(userID string, id uint, req *LogTimeRequest) (*LogTimeResult, error) {
	if req.Hours <= 0 {
		return nil, &ValidationError{Message: "hours must be greater than 0"}
	}
	day, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Message: "date must be YYYY-MM-DD"}
	}

	var result LogTimeResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		task, err := ownedTask(tx, userID, id)
		if err != nil {
			return err
		}

		result.Entry = models.TimeEntry{
			TaskID:      task.ID,
			UserID:      userID,
			Hours:       req.Hours,
			Description: req.Description,
			Date:        day,
		}
		if err := tx.Create(&result.Entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
			Update("actual_hours", gorm.Expr("actual_hours + ?", req.Hours)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).Select("actual_hours").Where("id = ?", task.ID).Scan(&result.ActualHours).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *TaskService) ListTimeEntries(userID string, taskID uint) ([]models.TimeEntry, error) {
	if _, err := ownedTask(s.db, userID, taskID); err != nil {
		return nil, err
	}
	entries := []models.TimeEntry{}
	err := s.db.Where("task_id = ?", taskID).Order("date DESC, id DESC").Find(&entries).Error
	return entries, err
}
