package services

import (
	"time"

	"github.com/huangang/projectpulse/internal/models"
	"github.com/huangang/projectpulse/pkg/logger"
	"gorm.io/gorm"
)

// AIUsageService keeps the per-call generation ledger.
type AIUsageService struct {
	db *gorm.DB
}

func NewAIUsageService(db *gorm.DB) *AIUsageService {
	return &AIUsageService{db: db}
}

// Record writes one ledger row. A ledger failure is logged and never fails
// the generation request that produced it.
func (s *AIUsageService) Record(entry *models.AIUsageLog) {
	entry.TotalTokens = entry.PromptTokens + entry.CompletionTokens
	if err := s.db.Create(entry).Error; err != nil {
		logger.Warnf("[AIUsage] Failed to record usage: %v", err)
	}
}

// UsageFilter scopes ledger queries. Dates are inclusive calendar days.
type UsageFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID *uint
}

func (s *AIUsageService) scoped(f UsageFilter) *gorm.DB {
	query := s.db.Model(&models.AIUsageLog{}).Where("user_id = ?", f.UserID)
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", models.DateOf(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("created_at < ?", models.DateOf(*f.EndDate).AddDate(0, 0, 1))
	}
	if f.ProjectID != nil && *f.ProjectID > 0 {
		query = query.Where("project_id = ?", *f.ProjectID)
	}
	return query
}

type UsageStats struct {
	TotalCalls       int64           `json:"total_calls"`
	TotalTokens      int64           `json:"total_tokens"`
	PromptTokens     int64           `json:"prompt_tokens"`
	CompletionTokens int64           `json:"completion_tokens"`
	AvgLatencyMs     float64         `json:"avg_latency_ms"`
	SuccessRate      float64         `json:"success_rate"`
	SuccessCount     int64           `json:"success_count"`
	FailureCount     int64           `json:"failure_count"`
	Providers        []ProviderUsage `json:"providers" gorm:"-"`
}

type ProviderUsage struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Calls        int     `json:"calls"`
	TotalTokens  int     `json:"total_tokens"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

func (s *AIUsageService) GetStats(f UsageFilter) (*UsageStats, error) {
	var stats UsageStats
	err := s.scoped(f).Select(
		"COUNT(*) as total_calls, " +
			"COALESCE(SUM(total_tokens), 0) as total_tokens, " +
			"COALESCE(SUM(prompt_tokens), 0) as prompt_tokens, " +
			"COALESCE(SUM(completion_tokens), 0) as completion_tokens, " +
			"COALESCE(AVG(latency_ms), 0) as avg_latency_ms, " +
			"COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) as success_count, " +
			"COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) as failure_count",
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalCalls > 0 {
		stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.TotalCalls) * 100
	}

	err = s.scoped(f).Select(
		"provider, model, " +
			"COUNT(*) as calls, " +
			"COALESCE(SUM(total_tokens), 0) as total_tokens, " +
			"COALESCE(AVG(latency_ms), 0) as avg_latency_ms",
	).Group("provider, model").Order("calls DESC").Scan(&stats.Providers).Error
	if err != nil {
		return nil, err
	}
	if stats.Providers == nil {
		stats.Providers = []ProviderUsage{}
	}
	return &stats, nil
}

// CleanupBefore deletes ledger rows older than before.
func (s *AIUsageService) CleanupBefore(before time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", before).Delete(&models.AIUsageLog{})
	return result.RowsAffected, result.Error
}
