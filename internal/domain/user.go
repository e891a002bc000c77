package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is an identity record. PasswordHash is never serialized and is
// excluded from default selects by the repository; only the explicit
// credential lookup reads it.
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	PublicID string  `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	Rut      *string `gorm:"size:20;uniqueIndex" json:"rut,omitempty"`

	FirstName string `gorm:"size:120;not null" json:"first_name"`
	LastName  string `gorm:"size:120;not null" json:"last_name"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`

	// Empty for users provisioned without credentials.
	PasswordHash string `gorm:"size:1024" json:"-"`

	RoleID uint `gorm:"not null" json:"-"`
	Role   Role `json:"role"`
	AreaID uint `gorm:"not null" json:"-"`
	Area   Area `json:"area"`

	Status    UserStatus `gorm:"size:32;not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the immutable public identifier.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.PublicID == "" {
		u.PublicID = uuid.NewString()
	}
	return nil
}
