package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription mirrors the billing provider's view of a user's plan.
// The billing integration writes it; this service only reads it.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           string     `gorm:"size:100;uniqueIndex;not null" json:"user_id"`
	Status           string     `gorm:"size:20;not null" json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
