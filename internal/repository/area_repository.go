package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/observability"
)

var ErrAreaNotFound = errors.New("area not found")

type AreaRepository interface {
	Create(ctx context.Context, area *domain.Area) error
	FindByID(ctx context.Context, id uint) (*domain.Area, error)
	FindByName(ctx context.Context, name string) (*domain.Area, error)
	List(ctx context.Context) ([]domain.Area, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormAreaRepository struct{ db *gorm.DB }

func NewAreaRepository(db *gorm.DB) AreaRepository { return &GormAreaRepository{db: db} }

func (r *GormAreaRepository) Create(ctx context.Context, area *domain.Area) error {
	if err := r.db.WithContext(ctx).Create(area).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "area", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "area", "create", "success")
	return nil
}

func (r *GormAreaRepository) FindByID(ctx context.Context, id uint) (*domain.Area, error) {
	var area domain.Area
	if err := r.db.WithContext(ctx).First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}

func (r *GormAreaRepository) FindByName(ctx context.Context, name string) (*domain.Area, error) {
	var area domain.Area
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}

func (r *GormAreaRepository) List(ctx context.Context) ([]domain.Area, error) {
	var areas []domain.Area
	err := r.db.WithContext(ctx).Order("id").Find(&areas).Error
	return areas, err
}

func (r *GormAreaRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Area{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "area", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "area", "update", "not_found")
		return ErrAreaNotFound
	}
	observability.RecordRepositoryOperation(ctx, "area", "update", "success")
	return nil
}

func (r *GormAreaRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Area{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "area", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "area", "delete_by_id", "not_found")
		return ErrAreaNotFound
	}
	observability.RecordRepositoryOperation(ctx, "area", "delete_by_id", "success")
	return nil
}
