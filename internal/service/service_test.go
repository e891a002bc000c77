package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emmott-systems/soporte-api/internal/config"
	"github.com/emmott-systems/soporte-api/internal/database"
	"github.com/emmott-systems/soporte-api/internal/security"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newServiceDB(t *testing.T, seed bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if seed {
		if err := database.Seed(db); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTIssuer:       "soporte-api",
		JWTAudience:     "soporte-clients",
		JWTSecret:       testJWTSecret,
		JWTTTL:          time.Hour,
		BootstrapRoleID: 1,
		BootstrapAreaID: 1,
	}
}

func newTestJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTTTL)
}
