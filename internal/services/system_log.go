package services

import (
	"encoding/json"
	"time"

	"github.com/huangang/projectpulse/internal/models"
	"github.com/huangang/projectpulse/pkg/logger"
	"gorm.io/gorm"
)

const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// SystemLogService writes and reads the audit trail of write requests.
type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

// AuditEntry is the request-side data for one audit row.
type AuditEntry struct {
	Level     string
	Module    string
	Action    string
	Message   string
	UserID    string
	RequestID string
	IP        string
	UserAgent string
	Extra     interface{}
}

// Write persists the entry. Failures are logged, never returned: the
// request being audited has already completed.
func (s *SystemLogService) Write(e AuditEntry) {
	var extra string
	if e.Extra != nil {
		if b, err := json.Marshal(e.Extra); err == nil {
			extra = string(b)
		}
	}
	if e.Level == "" {
		e.Level = LogLevelInfo
	}

	row := &models.SystemLog{
		Level:     e.Level,
		Module:    e.Module,
		Action:    e.Action,
		Message:   e.Message,
		UserID:    e.UserID,
		RequestID: e.RequestID,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		Extra:     extra,
	}
	if err := s.db.Create(row).Error; err != nil {
		logger.Warnf("[SystemLog] Failed to write audit entry %s/%s: %v", e.Module, e.Action, err)
	}
}

type SystemLogListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Level    string `form:"level" binding:"omitempty,oneof=info warning error"`
	Module   string `form:"module"`
}

type SystemLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.SystemLog `json:"items"`
}

// List pages through the caller's own audit rows, newest first.
func (s *SystemLogService) List(userID string, req *SystemLogListRequest) (*SystemLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.SystemLog{}).Where("user_id = ?", userID)
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	logs := []models.SystemLog{}
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &SystemLogListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: logs}, nil
}

// CleanupBefore deletes audit rows older than before.
func (s *SystemLogService) CleanupBefore(before time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", before).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
