package services

import (
	"errors"
	"testing"

	"github.com/huangang/projectpulse/internal/models"
)

func seedProject(t *testing.T, s *ProjectService, userID, name string, mutate func(*CreateProjectRequest)) *models.Project {
	t.Helper()
	req := &CreateProjectRequest{Name: name}
	if mutate != nil {
		mutate(req)
	}
	p, err := s.Create(userID, req)
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return p
}

func TestProjectService_CreateDefaults(t *testing.T) {
	s := NewProjectService(newTestDB(t))

	p := seedProject(t, s, "u1", "Apollo", nil)

	if p.Status != models.ProjectStatusPlanning || p.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s, expected planning/medium", p.Status, p.Priority)
	}
	if p.UserID != "u1" {
		t.Errorf("UserID = %q, expected u1", p.UserID)
	}
}

func TestProjectService_CreateInvalidDate(t *testing.T) {
	s := NewProjectService(newTestDB(t))

	_, err := s.Create("u1", &CreateProjectRequest{Name: "bad", DueDate: "03/10/2026"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestProjectService_ListSortsByDueDateNullsLast(t *testing.T) {
	s := NewProjectService(newTestDB(t))
	seedProject(t, s, "u1", "undated", nil)
	seedProject(t, s, "u1", "late", func(r *CreateProjectRequest) { r.DueDate = "2026-06-01" })
	seedProject(t, s, "u1", "early", func(r *CreateProjectRequest) { r.DueDate = "2026-04-01" })
	seedProject(t, s, "u2", "foreign", nil)

	items, err := s.List("u1", &ProjectListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"early", "late", "undated"}
	if len(items) != len(want) {
		t.Fatalf("got %d projects, expected %d", len(items), len(want))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("items[%d] = %s, expected %s", i, items[i].Name, name)
		}
	}
}

func TestProjectService_ListSortsByPriority(t *testing.T) {
	s := NewProjectService(newTestDB(t))
	for _, p := range []struct{ name, priority string }{{"l", "low"}, {"c", "critical"}, {"m", "medium"}, {"h", "high"}} {
		prio := p.priority
		seedProject(t, s, "u1", p.name, func(r *CreateProjectRequest) { r.Priority = prio })
	}

	items, err := s.List("u1", &ProjectListRequest{SortBy: "priority"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := ""
	for _, it := range items {
		got += it.Name
	}
	if got != "chml" {
		t.Errorf("priority order = %q, expected %q", got, "chml")
	}
}

func TestProjectService_ListFilterAndProgress(t *testing.T) {
	db := newTestDB(t)
	s := NewProjectService(db)
	active := seedProject(t, s, "u1", "active", func(r *CreateProjectRequest) { r.Status = "active" })
	seedProject(t, s, "u1", "planned", nil)

	for _, status := range []string{"done", "todo", "todo", "todo"} {
		mustCreate(t, db, &models.Task{ProjectID: active.ID, Title: "t", Status: status})
	}

	items, err := s.List("u1", &ProjectListRequest{Status: "active"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Fatalf("filter returned %+v", items)
	}
	if items[0].Progress != 25 {
		t.Errorf("Progress = %d, expected 25", items[0].Progress)
	}
}

func TestProjectService_GetDetail(t *testing.T) {
	db := newTestDB(t)
	s := NewProjectService(db)
	p := seedProject(t, s, "u1", "Apollo", nil)
	mustCreate(t, db, &models.Task{ProjectID: p.ID, Title: "a", Status: "done", EstimatedHours: floatPtr(4), ActualHours: 5})
	mustCreate(t, db, &models.Task{ProjectID: p.ID, Title: "b", Status: "todo", ActualHours: 1.5})
	mustCreate(t, db, &models.Milestone{ProjectID: p.ID, Title: "m2", DueDate: date("2026-05-01")})
	mustCreate(t, db, &models.Milestone{ProjectID: p.ID, Title: "m1", DueDate: date("2026-04-01")})

	detail, err := s.Get("u1", p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Progress != 50 {
		t.Errorf("Progress = %d, expected 50", detail.Progress)
	}
	if detail.EstimatedHours != 4 || detail.ActualHours != 6.5 {
		t.Errorf("hours = %v/%v, expected 4/6.5", detail.EstimatedHours, detail.ActualHours)
	}
	if len(detail.Project.Milestones) != 2 || detail.Project.Milestones[0].Title != "m1" {
		t.Errorf("milestones should be ordered by due date, got %+v", detail.Project.Milestones)
	}

	var nf *NotFoundError
	if _, err := s.Get("u2", p.ID); !errors.As(err, &nf) {
		t.Errorf("Get() by non-owner = %v, expected NotFoundError", err)
	}
}

func TestProjectService_Update(t *testing.T) {
	s := NewProjectService(newTestDB(t))
	p := seedProject(t, s, "u1", "Apollo", func(r *CreateProjectRequest) { r.DueDate = "2026-04-01" })

	name := "Artemis"
	status := "active"
	clear := ""
	updated, err := s.Update("u1", p.ID, &UpdateProjectRequest{Name: &name, Status: &status, DueDate: &clear})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Artemis" || updated.Status != "active" {
		t.Errorf("updated = %s/%s", updated.Name, updated.Status)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate = %v, expected cleared", updated.DueDate)
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("Priority changed to %q", updated.Priority)
	}

	var nf *NotFoundError
	if _, err := s.Update("u2", p.ID, &UpdateProjectRequest{Name: &name}); !errors.As(err, &nf) {
		t.Errorf("Update() by non-owner = %v, expected NotFoundError", err)
	}
}

func TestProjectService_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	s := NewProjectService(db)
	p := seedProject(t, s, "u1", "doomed", nil)
	keep := seedProject(t, s, "u1", "kept", nil)

	task := &models.Task{ProjectID: p.ID, Title: "t"}
	mustCreate(t, db, task)
	mustCreate(t, db, &models.TimeEntry{TaskID: task.ID, UserID: "u1", Hours: 1, Date: date("2026-03-10")})
	mustCreate(t, db, &models.Milestone{ProjectID: p.ID, Title: "m", DueDate: date("2026-03-10")})
	mustCreate(t, db, &models.ProjectInsight{ProjectID: p.ID, InsightType: "x", Content: "c"})
	keptTask := &models.Task{ProjectID: keep.ID, Title: "k"}
	mustCreate(t, db, keptTask)
	mustCreate(t, db, &models.TimeEntry{TaskID: keptTask.ID, UserID: "u1", Hours: 2, Date: date("2026-03-10")})

	var nf *NotFoundError
	if err := s.Delete("u2", p.ID); !errors.As(err, &nf) {
		t.Fatalf("Delete() by non-owner = %v, expected NotFoundError", err)
	}
	if err := s.Delete("u1", p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"projects": &models.Project{}, "tasks": &models.Task{}, "entries": &models.TimeEntry{},
		"milestones": &models.Milestone{}, "insights": &models.ProjectInsight{},
	} {
		var n int64
		db.Model(model).Count(&n)
		counts[name] = n
	}
	want := map[string]int64{"projects": 1, "tasks": 1, "entries": 1, "milestones": 0, "insights": 0}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s remaining = %d, expected %d", k, counts[k], v)
		}
	}
}
