package services

import (
	"testing"
	"time"

	"github.com/huangang/projectpulse/internal/models"
)

func TestSystemLogService_WriteAndList(t *testing.T) {
	s := NewSystemLogService(newTestDB(t))

	s.Write(AuditEntry{Module: "project", Action: "create", UserID: "u1", RequestID: "req-1", Extra: map[string]int{"id": 3}})
	s.Write(AuditEntry{Level: LogLevelError, Module: "task", Action: "log_time", UserID: "u1"})
	s.Write(AuditEntry{Module: "project", Action: "delete", UserID: "u2"})

	resp, err := s.List("u1", &SystemLogListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("List() total = %d items = %d, expected 2", resp.Total, len(resp.Items))
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("paging defaults = %d/%d", resp.Page, resp.PageSize)
	}

	filtered, _ := s.List("u1", &SystemLogListRequest{Module: "project"})
	if filtered.Total != 1 {
		t.Fatalf("module filter total = %d, expected 1", filtered.Total)
	}
	row := filtered.Items[0]
	if row.Level != LogLevelInfo || row.RequestID != "req-1" || row.Extra != `{"id":3}` {
		t.Errorf("row = %+v", row)
	}
}

func TestRetentionScheduler_RunOnce(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	mustCreate(t, db, &models.SystemLog{Module: "m", CreatedAt: now.AddDate(0, 0, -40)})
	mustCreate(t, db, &models.SystemLog{Module: "m", CreatedAt: now.AddDate(0, 0, -5)})
	mustCreate(t, db, &models.AIUsageLog{UserID: "u", CreatedAt: now.AddDate(0, 0, -31)})
	mustCreate(t, db, &models.AIUsageLog{UserID: "u", CreatedAt: now.AddDate(0, 0, -1)})

	r := NewRetentionScheduler(NewSystemLogService(db), NewAIUsageService(db), 30)
	r.now = func() time.Time { return now }

	sys, usage := r.RunOnce()
	if sys != 1 || usage != 1 {
		t.Errorf("RunOnce() = %d/%d, expected 1/1", sys, usage)
	}
}

func TestRetentionScheduler_Start(t *testing.T) {
	db := newTestDB(t)
	r := NewRetentionScheduler(NewSystemLogService(db), NewAIUsageService(db), 30)

	if err := r.Start("not a cron"); err == nil {
		t.Error("expected error for invalid cron spec")
	}

	r = NewRetentionScheduler(NewSystemLogService(db), NewAIUsageService(db), 30)
	if err := r.Start("0 3 * * *"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Stop()

	disabled := NewRetentionScheduler(NewSystemLogService(db), NewAIUsageService(db), 0)
	if err := disabled.Start("0 3 * * *"); err != nil || disabled.cron != nil {
		t.Errorf("disabled scheduler should not register a job, err = %v", err)
	}
	disabled.Stop()
}
