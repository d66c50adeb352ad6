package services

import (
	"sort"
	"time"

	"github.com/huangang/projectpulse/internal/models"
)

const (
	DeadlineKindTask      = "Task"
	DeadlineKindMilestone = "Milestone"
)

// DeadlineItem is one entry of the merged upcoming-deadline timeline.
type DeadlineItem struct {
	Kind         string    `json:"type"`
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
	ProjectID    uint      `json:"project_id"`
	WorkdaysLeft int       `json:"workdays_left"`
}

// MergeDeadlines tags tasks and milestones as deadline items and sorts them
// ascending by due date. The sort is stable: items sharing a date keep
// append order, tasks first, each in input order. Callers are expected to
// pass already window-filtered, open items.
func MergeDeadlines(tasks []models.Task, milestones []models.Milestone) []DeadlineItem {
	items := make([]DeadlineItem, 0, len(tasks)+len(milestones))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		items = append(items, DeadlineItem{
			Kind:      DeadlineKindTask,
			ID:        t.ID,
			Title:     t.Title,
			DueDate:   models.DateOf(*t.DueDate),
			ProjectID: t.ProjectID,
		})
	}
	for _, m := range milestones {
		items = append(items, DeadlineItem{
			Kind:      DeadlineKindMilestone,
			ID:        m.ID,
			Title:     m.Title,
			DueDate:   models.DateOf(m.DueDate),
			ProjectID: m.ProjectID,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate)
	})
	return items
}

// FilterDeadlineWindow keeps open tasks and milestones due within
// [today, today+windowDays], comparing calendar dates only.
func FilterDeadlineWindow(tasks []models.Task, milestones []models.Milestone, today time.Time, windowDays int) ([]models.Task, []models.Milestone) {
	start := models.DateOf(today)
	end := start.AddDate(0, 0, windowDays)
	inWindow := func(d time.Time) bool {
		d = models.DateOf(d)
		return !d.Before(start) && !d.After(end)
	}

	var openTasks []models.Task
	for _, t := range tasks {
		if t.DueDate != nil && t.Status != models.TaskStatusDone && inWindow(*t.DueDate) {
			openTasks = append(openTasks, t)
		}
	}
	var openMilestones []models.Milestone
	for _, m := range milestones {
		if !m.Completed && inWindow(m.DueDate) {
			openMilestones = append(openMilestones, m)
		}
	}
	return openTasks, openMilestones
}
