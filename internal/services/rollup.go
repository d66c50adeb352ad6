package services

import (
	"math"
	"time"

	"github.com/huangang/projectpulse/internal/models"
)

// QuickStats is the dashboard headline bundle.
type QuickStats struct {
	TotalProjects int     `json:"total_projects"`
	ActiveTasks   int     `json:"active_tasks"`
	OverdueTasks  int     `json:"overdue_tasks"`
	WeeklyHours   float64 `json:"weekly_hours"`
}

var activeTaskStatuses = map[string]bool{
	models.TaskStatusTodo:       true,
	models.TaskStatusInProgress: true,
	models.TaskStatusReview:     true,
	models.TaskStatusBlocked:    true,
}

// ProjectStatusCounts counts projects per status. Every known status is
// present; projects with an unknown status are not counted.
func ProjectStatusCounts(projects []models.Project) map[string]int {
	counts := make(map[string]int, len(models.ProjectStatuses))
	for _, s := range models.ProjectStatuses {
		counts[s] = 0
	}
	for _, p := range projects {
		if _, ok := counts[p.Status]; ok {
			counts[p.Status]++
		}
	}
	return counts
}

// GroupTasksByStatus buckets tasks per status, keeping input order within each bucket.
func GroupTasksByStatus(tasks []models.Task) map[string][]models.Task {
	groups := make(map[string][]models.Task, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		groups[s] = []models.Task{}
	}
	for _, t := range tasks {
		if _, ok := groups[t.Status]; ok {
			groups[t.Status] = append(groups[t.Status], t)
		}
	}
	return groups
}

// ProgressPercentage is floor(100 * done / total), 0 for an empty task set.
func ProgressPercentage(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusDone {
			done++
		}
	}
	return int(math.Floor(100 * float64(done) / float64(len(tasks))))
}

// CountOverdue counts tasks due strictly before today that are not done.
func CountOverdue(tasks []models.Task, today time.Time) int {
	n := 0
	for i := range tasks {
		if tasks[i].IsOverdue(today) {
			n++
		}
	}
	return n
}

// ComputeQuickStats derives the headline numbers. weeklyHours is the
// already-summed hours since WeekStart(today).
func ComputeQuickStats(projects []models.Project, tasks []models.Task, weeklyHours float64, today time.Time) QuickStats {
	stats := QuickStats{
		TotalProjects: len(projects),
		OverdueTasks:  CountOverdue(tasks, today),
		WeeklyHours:   weeklyHours,
	}
	for _, t := range tasks {
		if activeTaskStatuses[t.Status] {
			stats.ActiveTasks++
		}
	}
	return stats
}

// WeekStart returns the Monday on or before today.
func WeekStart(today time.Time) time.Time {
	d := models.DateOf(today)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
