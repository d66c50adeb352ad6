package services

import (
	"context"
	"errors"
	"time"

	"github.com/huangang/projectpulse/internal/identity"
	"github.com/huangang/projectpulse/internal/models"
	"github.com/huangang/projectpulse/pkg/logger"
	"gorm.io/gorm"
)

// InsightService builds project context, calls the generator and stores the
// resulting insight. Concurrent requests for the same project are not
// serialized; each successful call appends its own row.
type InsightService struct {
	db        *gorm.DB
	generator Generator
	usage     *AIUsageService
	now       func() time.Time
}

func NewInsightService(db *gorm.DB, generator Generator, usage *AIUsageService) *InsightService {
	return &InsightService{db: db, generator: generator, usage: usage, now: time.Now}
}

type GenerateInsightRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	InsightType string `json:"insight_type" binding:"required,max=100"`
}

type GenerateInsightResult struct {
	Status      string    `json:"status"`
	InsightID   uint      `json:"insight_id"`
	Content     string    `json:"content"`
	ModelUsed   string    `json:"model_used"`
	GeneratedAt time.Time `json:"generated_at"`
}

type InsightListRequest struct {
	ProjectID uint `form:"project_id"`
}

func (s *InsightService) Generate(ctx context.Context, who identity.Identity, req *GenerateInsightRequest) (*GenerateInsightResult, error) {
	if err := s.generator.Validate(); err != nil {
		return nil, err
	}

	project, err := ownedProject(s.db.WithContext(ctx), who.ID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Where("project_id = ?", project.ID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	var milestones []models.Milestone
	if err := s.db.WithContext(ctx).Where("project_id = ?", project.ID).Order("id ASC").Find(&milestones).Error; err != nil {
		return nil, err
	}

	prompt := BuildInsightPrompt(BuildInsightContext(project, tasks, milestones, s.now()), req.InsightType)

	logger.Infof("[Insight] Generating %s for project %d", req.InsightType, project.ID)
	start := time.Now()
	result, genErr := s.generator.Generate(ctx, prompt)
	s.recordUsage(who, project.ID, req.InsightType, result, genErr, time.Since(start))
	if genErr != nil {
		return nil, genErr
	}

	insight := models.ProjectInsight{
		ProjectID:   project.ID,
		InsightType: req.InsightType,
		Content:     result.Content,
		ModelUsed:   result.Model,
		GeneratedAt: s.now(),
		RequestedBy: who.DisplayName(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ownership may have changed while the generator was running.
		if _, err := ownedProject(tx, who.ID, project.ID); err != nil {
			return err
		}
		return tx.Create(&insight).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Insight] Stored insight %d for project %d (%d chars)", insight.ID, project.ID, len(insight.Content))
	return &GenerateInsightResult{
		Status:      "ok",
		InsightID:   insight.ID,
		Content:     insight.Content,
		ModelUsed:   insight.ModelUsed,
		GeneratedAt: insight.GeneratedAt,
	}, nil
}

func (s *InsightService) recordUsage(who identity.Identity, projectID uint, insightType string, result *GenerationResult, err error, elapsed time.Duration) {
	if s.usage == nil {
		return
	}
	entry := &models.AIUsageLog{
		UserID:      who.ID,
		ProjectID:   &projectID,
		InsightType: insightType,
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
	}
	entry.Provider, entry.Model = s.generator.Source()
	if result != nil {
		entry.Provider = result.Provider
		entry.Model = result.Model
		entry.PromptTokens = result.PromptTokens
		entry.CompletionTokens = result.CompletionTokens
	}
	if err != nil {
		entry.ErrorMessage = truncate(err.Error(), maxErrorDetail)
	}
	s.usage.Record(entry)
}

// List returns the user's insights, newest first.
func (s *InsightService) List(userID string, req *InsightListRequest) ([]models.ProjectInsight, error) {
	query := s.db.Joins("JOIN projects ON projects.id = project_insights.project_id").
		Where("projects.user_id = ?", userID)
	if req.ProjectID > 0 {
		query = query.Where("project_insights.project_id = ?", req.ProjectID)
	}

	insights := []models.ProjectInsight{}
	err := query.Order("project_insights.generated_at DESC, project_insights.id DESC").Find(&insights).Error
	return insights, err
}

func (s *InsightService) Get(userID string, id uint) (*models.ProjectInsight, error) {
	var insight models.ProjectInsight
	err := s.db.Joins("JOIN projects ON projects.id = project_insights.project_id").
		Where("project_insights.id = ? AND projects.user_id = ?", id, userID).
		Preload("Project").
		First(&insight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "insight"}
	}
	if err != nil {
		return nil, err
	}
	return &insight, nil
}
