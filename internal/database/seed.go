package database

import (
	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
)

var defaultRoles = []domain.Role{
	{Name: "ADMIN", Description: "Full administrative access"},
	{Name: "SUPERVISOR", Description: "Supervises support operations"},
	{Name: "ANALYST", Description: "Handles support tickets"},
	{Name: "QA", Description: "Quality assurance"},
	{Name: "DEVELOPER", Description: "Engineering access"},
}

var defaultAreas = []domain.Area{
	{Name: "Soporte", Description: "Customer support"},
	{Name: "Desarrollo", Description: "Software development"},
	{Name: "Marketing", Description: "Marketing and outreach"},
	{Name: "Finanzas", Description: "Finance and billing"},
	{Name: "RRHH", Description: "Human resources"},
}

type SeedReport struct {
	CreatedRoles int  `json:"created_roles"`
	CreatedAreas int  `json:"created_areas"`
	Noop         bool `json:"noop"`
}

// Seed inserts the default catalog of roles and areas. Existing rows are
// left untouched, so it is safe to run on every startup.
func Seed(db *gorm.DB) error {
	_, err := SeedSync(db)
	return err
}

func SeedSync(db *gorm.DB) (*SeedReport, error) {
	report := &SeedReport{}

	for _, role := range defaultRoles {
		res := db.Where("name = ?", role.Name).FirstOrCreate(&role)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedRoles++
		}
	}
	for _, area := range defaultAreas {
		res := db.Where("name = ?", area.Name).FirstOrCreate(&area)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedAreas++
		}
	}

	report.Noop = report.CreatedRoles == 0 && report.CreatedAreas == 0
	return report, nil
}
