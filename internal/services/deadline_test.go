package services

import (
	"testing"

	"github.com/huangang/projectpulse/internal/models"
)

func TestMergeDeadlines_SortedByDate(t *testing.T) {
	tasks := []models.Task{{ID: 1, ProjectID: 9, Title: "ship", DueDate: datePtr("2026-03-12")}}
	milestones := []models.Milestone{{ID: 2, ProjectID: 9, Title: "beta", DueDate: date("2026-03-09")}}

	items := MergeDeadlines(tasks, milestones)

	if len(items) != 2 {
		t.Fatalf("got %d items, expected 2", len(items))
	}
	if items[0].Kind != DeadlineKindMilestone || items[0].ID != 2 {
		t.Errorf("first item = %+v, expected milestone 2", items[0])
	}
	if items[1].Kind != DeadlineKindTask || items[1].Title != "ship" || items[1].ProjectID != 9 {
		t.Errorf("second item = %+v, expected task 'ship'", items[1])
	}
}

func TestMergeDeadlines_StableTies(t *testing.T) {
	tasks := []models.Task{
		{ID: 10, DueDate: datePtr("2026-03-11")},
		{ID: 11, DueDate: datePtr("2026-03-11")},
	}
	milestones := []models.Milestone{
		{ID: 20, DueDate: date("2026-03-11")},
		{ID: 21, DueDate: date("2026-03-10")},
	}

	items := MergeDeadlines(tasks, milestones)

	want := []struct {
		kind string
		id   uint
	}{
		{DeadlineKindMilestone, 21},
		{DeadlineKindTask, 10},
		{DeadlineKindTask, 11},
		{DeadlineKindMilestone, 20},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, expected %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Kind != w.kind || items[i].ID != w.id {
			t.Errorf("items[%d] = %s %d, expected %s %d", i, items[i].Kind, items[i].ID, w.kind, w.id)
		}
	}
}

func TestMergeDeadlines_Empty(t *testing.T) {
	items := MergeDeadlines(nil, nil)
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", items)
	}
}

func TestFilterDeadlineWindow(t *testing.T) {
	today := date("2026-03-10")
	tasks := []models.Task{
		{ID: 1, Status: "todo", DueDate: datePtr("2026-03-10")},
		{ID: 2, Status: "todo", DueDate: datePtr("2026-03-17")},
		{ID: 3, Status: "todo", DueDate: datePtr("2026-03-18")},
		{ID: 4, Status: "done", DueDate: datePtr("2026-03-12")},
		{ID: 5, Status: "review", DueDate: datePtr("2026-03-09")},
		{ID: 6, Status: "todo"},
	}
	milestones := []models.Milestone{
		{ID: 7, DueDate: date("2026-03-13")},
		{ID: 8, DueDate: date("2026-03-13"), Completed: true},
		{ID: 9, DueDate: date("2026-03-09")},
	}

	openTasks, openMilestones := FilterDeadlineWindow(tasks, milestones, today, 7)

	if len(openTasks) != 2 || openTasks[0].ID != 1 || openTasks[1].ID != 2 {
		t.Errorf("tasks = %+v, expected ids [1 2]", openTasks)
	}
	if len(openMilestones) != 1 || openMilestones[0].ID != 7 {
		t.Errorf("milestones = %+v, expected id [7]", openMilestones)
	}

	end := today.AddDate(0, 0, 7)
	for _, item := range MergeDeadlines(openTasks, openMilestones) {
		if item.DueDate.Before(today) || item.DueDate.After(end) {
			t.Errorf("item %+v outside window", item)
		}
	}
}
