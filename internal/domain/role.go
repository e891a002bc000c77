package domain

// Role is a reference entity owned by the roles CRUD module; the auth core
// only reads it to resolve user role bindings.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}
