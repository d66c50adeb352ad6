package services

import (
	"time"

	"github.com/huangang/projectpulse/internal/config"
	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

const recentActivityLimit = 10

type DashboardService struct {
	db       *gorm.DB
	holidays *HolidayService
	cfg      config.DashboardConfig
	now      func() time.Time
}

func NewDashboardService(db *gorm.DB, holidays *HolidayService, cfg config.DashboardConfig) *DashboardService {
	if cfg.DeadlineWindowDays <= 0 {
		cfg.DeadlineWindowDays = 7
	}
	return &DashboardService{db: db, holidays: holidays, cfg: cfg, now: time.Now}
}

type Dashboard struct {
	ProjectStatusCounts map[string]int           `json:"project_status_counts"`
	TasksByStatus       map[string][]models.Task `json:"tasks_by_status"`
	UpcomingDeadlines   []DeadlineItem           `json:"upcoming_deadlines"`
	Stats               QuickStats               `json:"stats"`
	RecentActivity      []models.TimeEntry       `json:"recent_activity"`
	Today               string                   `json:"today"`
	WeekStart           string                   `json:"week_start"`
}

// Get recomputes every aggregate from current store state.
func (s *DashboardService) Get(userID string) (*Dashboard, error) {
	today := models.DateOf(s.now())
	weekStart := WeekStart(today)

	var projects []models.Project
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	projectIDs := make([]uint, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	var tasks []models.Task
	upcoming := []DeadlineItem{}
	if len(projectIDs) > 0 {
		if err := s.db.Where("project_id IN ?", projectIDs).Order("id ASC").Find(&tasks).Error; err != nil {
			return nil, err
		}
		var err error
		upcoming, err = s.upcomingDeadlines(projectIDs, today)
		if err != nil {
			return nil, err
		}
	}

	var weeklyHours float64
	if err := s.db.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ? AND date >= ?", userID, weekStart).
		Scan(&weeklyHours).Error; err != nil {
		return nil, err
	}

	recent := []models.TimeEntry{}
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(recentActivityLimit).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	return &Dashboard{
		ProjectStatusCounts: ProjectStatusCounts(projects),
		TasksByStatus:       GroupTasksByStatus(tasks),
		UpcomingDeadlines:   upcoming,
		Stats:               ComputeQuickStats(projects, tasks, weeklyHours, today),
		RecentActivity:      recent,
		Today:               today.Format(models.DateLayout),
		WeekStart:           weekStart.Format(models.DateLayout),
	}, nil
}

func (s *DashboardService) upcomingDeadlines(projectIDs []uint, today time.Time) ([]DeadlineItem, error) {
	end := today.AddDate(0, 0, s.cfg.DeadlineWindowDays)

	var tasks []models.Task
	if err := s.db.Where("project_id IN ? AND due_date >= ? AND due_date <= ? AND status <> ?",
		projectIDs, today, end, models.TaskStatusDone).
		Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	var milestones []models.Milestone
	if err := s.db.Where("project_id IN ? AND due_date >= ? AND due_date <= ? AND completed = ?",
		projectIDs, today, end, false).
		Order("id ASC").Find(&milestones).Error; err != nil {
		return nil, err
	}

	items := MergeDeadlines(FilterDeadlineWindow(tasks, milestones, today, s.cfg.DeadlineWindowDays))
	for i := range items {
		items[i].WorkdaysLeft = s.holidays.WorkdaysBetween(today, items[i].DueDate, s.cfg.HolidayCountry)
	}
	return items, nil
}
