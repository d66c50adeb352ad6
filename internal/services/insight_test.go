package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangang/projectpulse/internal/identity"
	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	validateErr error
	err         error
	content     string
	calls       int
	prompts     []string
	during      func()
}

func (f *fakeGenerator) Validate() error { return f.validateErr }

func (f *fakeGenerator) Source() (string, string) { return "fake", "fake-1" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (*GenerationResult, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &GenerationResult{Content: f.content, Provider: "fake", Model: "fake-1", PromptTokens: 3, CompletionTokens: 4}, nil
}

func setupInsightFixture(t *testing.T, gen *fakeGenerator) (*InsightService, *gorm.DB, *models.Project) {
	t.Helper()
	db := newTestDB(t)
	p := &models.Project{UserID: "u1", Name: "Apollo", Status: "active", Priority: "high"}
	mustCreate(t, db, p)
	mustCreate(t, db, &models.Task{ProjectID: p.ID, Title: "a", Status: "done"})
	mustCreate(t, db, &models.Task{ProjectID: p.ID, Title: "b", Status: "todo", DueDate: datePtr("2026-03-01")})
	mustCreate(t, db, &models.Milestone{ProjectID: p.ID, Title: "m", DueDate: date("2026-04-01"), Completed: true})

	s := NewInsightService(db, gen, NewAIUsageService(db))
	s.now = fixedClock("2026-03-10")
	return s, db, p
}

func countInsights(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	db.Model(&models.ProjectInsight{}).Count(&n)
	return n
}

func TestInsightService_GenerateStoresOneInsight(t *testing.T) {
	gen := &fakeGenerator{content: "Risk is low."}
	s, db, p := setupInsightFixture(t, gen)
	start := s.now()

	result, err := s.Generate(context.Background(), identity.Identity{ID: "u1", Email: "owner@example.com"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "risk_assessment"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Content != "Risk is low." || result.InsightID == 0 || result.Status != "ok" {
		t.Errorf("result = %+v", result)
	}
	if n := countInsights(t, db); n != 1 {
		t.Fatalf("insights stored = %d, expected 1", n)
	}

	var stored models.ProjectInsight
	db.First(&stored, result.InsightID)
	if stored.RequestedBy != "owner@example.com" || stored.ModelUsed != "fake-1" || stored.InsightType != "risk_assessment" {
		t.Errorf("stored = %+v", stored)
	}
	if stored.GeneratedAt.Before(start) {
		t.Errorf("GeneratedAt %v before request start %v", stored.GeneratedAt, start)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times", len(gen.prompts))
	}
	if want := "Total Tasks: 2. Done: 1. Overdue: 1."; !strings.Contains(gen.prompts[0], want) {
		t.Errorf("prompt missing %q", want)
	}

	var usage models.AIUsageLog
	if err := db.First(&usage).Error; err != nil {
		t.Fatalf("usage row: %v", err)
	}
	if !usage.Success || usage.TotalTokens != 7 || usage.UserID != "u1" {
		t.Errorf("usage = %+v", usage)
	}
}

func TestInsightService_RequesterFallback(t *testing.T) {
	s, db, p := setupInsightFixture(t, &fakeGenerator{content: "ok"})

	result, err := s.Generate(context.Background(), identity.Identity{ID: "u1"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "anything goes"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var stored models.ProjectInsight
	db.First(&stored, result.InsightID)
	if stored.RequestedBy != "user" {
		t.Errorf("RequestedBy = %q, expected %q", stored.RequestedBy, "user")
	}
}

func TestInsightService_FailedGenerationStoresNothing(t *testing.T) {
	gen := &fakeGenerator{err: &GenerationFailedError{Provider: "fake", Detail: "quota"}}
	s, db, p := setupInsightFixture(t, gen)

	_, err := s.Generate(context.Background(), identity.Identity{ID: "u1"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "progress_summary"})

	var genErr *GenerationFailedError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationFailedError, got %v", err)
	}
	if n := countInsights(t, db); n != 0 {
		t.Errorf("insights stored = %d, expected 0", n)
	}

	var usage models.AIUsageLog
	db.First(&usage)
	if usage.Success || usage.ErrorMessage == "" {
		t.Errorf("failure not recorded in ledger: %+v", usage)
	}
	if usage.Provider != "fake" || usage.Model != "fake-1" {
		t.Errorf("failed row attributed to (%q, %q), expected (fake, fake-1)", usage.Provider, usage.Model)
	}
}

func TestInsightService_ConfigurationErrorSkipsWork(t *testing.T) {
	gen := &fakeGenerator{validateErr: &ConfigurationError{Setting: "GOOGLE_API_KEY"}}
	s, db, p := setupInsightFixture(t, gen)

	_, err := s.Generate(context.Background(), identity.Identity{ID: "u1"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "x"})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times", gen.calls)
	}
	if n := countInsights(t, db); n != 0 {
		t.Errorf("insights stored = %d, expected 0", n)
	}
}

func TestInsightService_NotOwned(t *testing.T) {
	gen := &fakeGenerator{content: "x"}
	s, _, p := setupInsightFixture(t, gen)

	_, err := s.Generate(context.Background(), identity.Identity{ID: "intruder"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "x"})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator should not run for a foreign project")
	}
}

func TestInsightService_OwnershipRecheckedAtCommit(t *testing.T) {
	gen := &fakeGenerator{content: "x"}
	s, db, p := setupInsightFixture(t, gen)
	gen.during = func() {
		db.Model(&models.Project{}).Where("id = ?", p.ID).Update("user_id", "someone-else")
	}

	_, err := s.Generate(context.Background(), identity.Identity{ID: "u1"},
		&GenerateInsightRequest{ProjectID: p.ID, InsightType: "x"})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if n := countInsights(t, db); n != 0 {
		t.Errorf("insights stored = %d, expected 0", n)
	}
}

func TestInsightService_DuplicateRequestsAppend(t *testing.T) {
	s, db, p := setupInsightFixture(t, &fakeGenerator{content: "x"})
	req := &GenerateInsightRequest{ProjectID: p.ID, InsightType: "risk_assessment"}

	for i := 0; i < 2; i++ {
		if _, err := s.Generate(context.Background(), identity.Identity{ID: "u1"}, req); err != nil {
			t.Fatalf("Generate() #%d error = %v", i, err)
		}
	}
	if n := countInsights(t, db); n != 2 {
		t.Errorf("insights stored = %d, expected 2", n)
	}
}

func TestInsightService_ListAndGet(t *testing.T) {
	s, db, p := setupInsightFixture(t, &fakeGenerator{})
	foreign := &models.Project{UserID: "u2", Name: "Other"}
	mustCreate(t, db, foreign)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := &models.ProjectInsight{ProjectID: p.ID, InsightType: "a", Content: "old", GeneratedAt: base}
	newer := &models.ProjectInsight{ProjectID: p.ID, InsightType: "b", Content: "new", GeneratedAt: base.Add(time.Hour)}
	hidden := &models.ProjectInsight{ProjectID: foreign.ID, InsightType: "c", Content: "hidden", GeneratedAt: base}
	mustCreate(t, db, older)
	mustCreate(t, db, newer)
	mustCreate(t, db, hidden)

	list, err := s.List("u1", &InsightListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Errorf("List() = %+v, expected [newer older]", list)
	}

	got, err := s.Get("u1", older.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Project == nil || got.Project.Name != "Apollo" {
		t.Errorf("Get() should preload project, got %+v", got.Project)
	}

	var nf *NotFoundError
	if _, err := s.Get("u1", hidden.ID); !errors.As(err, &nf) {
		t.Errorf("Get() foreign insight = %v, expected NotFoundError", err)
	}
}
