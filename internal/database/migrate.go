package database

import (
	"github.com/emmott-systems/soporte-api/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Role{},
		&domain.Area{},
		&domain.User{},
		&domain.Company{},
		&domain.Contact{},
		&domain.Subscription{},
	)
}
