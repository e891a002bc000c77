package domain

// Area is an organizational unit (Soporte, Desarrollo, ...). Reference
// entity like Role.
type Area struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}
