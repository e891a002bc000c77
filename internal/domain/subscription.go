package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

type Subscription struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	CompanyID uint               `gorm:"not null;index" json:"company_id"`
	Plan      string             `gorm:"size:64;not null" json:"plan"`
	Status    SubscriptionStatus `gorm:"size:32;not null;default:ACTIVE" json:"status"`
	StartsAt  time.Time          `json:"starts_at"`
	EndsAt    *time.Time         `json:"ends_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
