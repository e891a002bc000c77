package domain

import "time"

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Rut       *string   `gorm:"size:20;uniqueIndex" json:"rut,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contacts      []Contact      `gorm:"constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Subscriptions []Subscription `gorm:"constraint:OnDelete:CASCADE" json:"subscriptions,omitempty"`
}
