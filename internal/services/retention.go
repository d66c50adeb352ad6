package services

import (
	"fmt"
	"time"

	"github.com/huangang/projectpulse/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RetentionScheduler prunes the audit trail and the AI usage ledger on a cron schedule.
type RetentionScheduler struct {
	systemLogs    *SystemLogService
	usage         *AIUsageService
	retentionDays int
	cron          *cron.Cron
	now           func() time.Time
}

func NewRetentionScheduler(systemLogs *SystemLogService, usage *AIUsageService, retentionDays int) *RetentionScheduler {
	return &RetentionScheduler{
		systemLogs:    systemLogs,
		usage:         usage,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Start registers the cleanup job. A non-positive retention disables it.
func (s *RetentionScheduler) Start(spec string) error {
	if s.retentionDays <= 0 {
		logger.Infof("[Retention] Cleanup disabled (retention_days <= 0)")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	s.cron.Start()
	logger.Infof("[Retention] Scheduler started (cron: %s, keep %d days)", spec, s.retentionDays)
	return nil
}

func (s *RetentionScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce deletes rows older than the retention window and returns the counts.
func (s *RetentionScheduler) RunOnce() (systemLogs, usageLogs int64) {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	systemLogs, err := s.systemLogs.CleanupBefore(cutoff)
	if err != nil {
		logger.Errorf("[Retention] Failed to cleanup system logs: %v", err)
	}
	usageLogs, err = s.usage.CleanupBefore(cutoff)
	if err != nil {
		logger.Errorf("[Retention] Failed to cleanup AI usage logs: %v", err)
	}

	if systemLogs > 0 || usageLogs > 0 {
		logger.Infof("[Retention] Removed %d system logs and %d usage logs older than %d days", systemLogs, usageLogs, s.retentionDays)
	}
	return systemLogs, usageLogs
}
