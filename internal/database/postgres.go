package database

import (
	"github.com/emmott-systems/soporte-api/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres with gorm's dialect-aware error translation
// enabled, so constraint violations surface as gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated instead of raw driver errors.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}
