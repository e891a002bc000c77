package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/observability"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	FindByID(ctx context.Context, id uint) (*domain.Company, error)
	ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.Company], error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormCompanyRepository struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &GormCompanyRepository{db: db} }

func (r *GormCompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "company", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "company", "create", "success")
	return nil
}

func (r *GormCompanyRepository) FindByID(ctx context.Context, id uint) (*domain.Company, error) {
	var c domain.Company
	err := r.db.WithContext(ctx).
		Preload("Contacts").Preload("Subscriptions").
		First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCompanyRepository) ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.Company], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.Company]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	if err := r.db.WithContext(ctx).Model(&domain.Company{}).Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "company", "list_paged", "error")
		return PageResult[domain.Company]{}, err
	}
	offset := (normalized.Page - 1) * normalized.PageSize
	err := r.db.WithContext(ctx).
		Preload("Contacts").Preload("Subscriptions").
		Order("id").
		Offset(offset).Limit(normalized.PageSize).
		Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "company", "list_paged", "error")
		return PageResult[domain.Company]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(ctx, "company", "list_paged", "success")
	return result, nil
}

func (r *GormCompanyRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "company", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "company", "update", "not_found")
		return ErrCompanyNotFound
	}
	observability.RecordRepositoryOperation(ctx, "company", "update", "success")
	return nil
}

func (r *GormCompanyRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Select("Contacts", "Subscriptions").Delete(&domain.Company{ID: id})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "company", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "company", "delete_by_id", "not_found")
		return ErrCompanyNotFound
	}
	observability.RecordRepositoryOperation(ctx, "company", "delete_by_id", "success")
	return nil
}
