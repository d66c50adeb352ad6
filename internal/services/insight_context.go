package services

import (
	"fmt"
	"time"

	"github.com/huangang/projectpulse/internal/models"
)

// InsightContext is the compact project summary fed to generation.
type InsightContext struct {
	ProjectName         string
	ProjectDescription  string
	ProjectStatus       string
	ProjectPriority     string
	TotalTasks          int
	DoneTasks           int
	OverdueTasks        int
	TotalMilestones     int
	CompletedMilestones int
}

func BuildInsightContext(project *models.Project, tasks []models.Task, milestones []models.Milestone, today time.Time) InsightContext {
	ic := InsightContext{
		ProjectName:        project.Name,
		ProjectDescription: project.Description,
		ProjectStatus:      project.Status,
		ProjectPriority:    project.Priority,
		TotalTasks:         len(tasks),
		OverdueTasks:       CountOverdue(tasks, today),
		TotalMilestones:    len(milestones),
	}
	for _, t := range tasks {
		if t.Status == models.TaskStatusDone {
			ic.DoneTasks++
		}
	}
	for _, m := range milestones {
		if m.Completed {
			ic.CompletedMilestones++
		}
	}
	return ic
}

func (ic InsightContext) TaskSummary() string {
	return fmt.Sprintf("Total Tasks: %d. Done: %d. Overdue: %d.", ic.TotalTasks, ic.DoneTasks, ic.OverdueTasks)
}

func (ic InsightContext) MilestoneSummary() string {
	return fmt.Sprintf("Total Milestones: %d. Completed: %d.", ic.TotalMilestones, ic.CompletedMilestones)
}

// BuildInsightPrompt renders the generation prompt. insightType is echoed
// verbatim; any label is accepted.
func BuildInsightPrompt(ic InsightContext, insightType string) string {
	description := ic.ProjectDescription
	if description == "" {
		description = "No description"
	}

	return fmt.Sprintf(`Analyze the project "%s" (%s).
Status: %s. Priority: %s.
Tasks Summary: %s
Milestones Summary: %s

Please provide a %s (e.g. risk_assessment, progress_summary, resource_analysis).
Focus on potential risks, progress blockers, or resource allocation issues if applicable.
Be concise and professional.
`, ic.ProjectName, description, ic.ProjectStatus, ic.ProjectPriority,
		ic.TaskSummary(), ic.MilestoneSummary(), insightType)
}
