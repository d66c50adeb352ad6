package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangang/projectpulse/internal/models"
	"gorm.io/gorm"
)

// SubscriptionChecker grants access to users holding an active or trialing
// subscription whose current period has not ended.
type SubscriptionChecker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSubscriptionChecker(db *gorm.DB) *SubscriptionChecker {
	return &SubscriptionChecker{db: db, now: time.Now}
}

func (s *SubscriptionChecker) CheckEntitlement(ctx context.Context, id Identity) (bool, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", id.ID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading subscription: %w", err)
	}

	if sub.Status != models.SubscriptionStatusActive && sub.Status != models.SubscriptionStatusTrialing {
		return false, nil
	}
	if sub.CurrentPeriodEnd != nil && !sub.CurrentPeriodEnd.After(s.now()) {
		return false, nil
	}
	return true, nil
}

// NewEntitlementChecker picks the checker for the configured mode.
func NewEntitlementChecker(mode string, db *gorm.DB) (EntitlementChecker, error) {
	switch mode {
	case "", "none":
		return AllowAll{}, nil
	case "subscription":
		return NewSubscriptionChecker(db), nil
	default:
		return nil, fmt.Errorf("unsupported entitlement mode: %s", mode)
	}
}
