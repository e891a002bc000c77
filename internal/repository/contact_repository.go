package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/observability"
)

var ErrContactNotFound = errors.New("contact not found")

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id uint) (*domain.Contact, error)
	ListByCompany(ctx context.Context, companyID uint) ([]domain.Contact, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormContactRepository struct{ db *gorm.DB }

func NewContactRepository(db *gorm.DB) ContactRepository { return &GormContactRepository{db: db} }

func (r *GormContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "contact", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "contact", "create", "success")
	return nil
}

func (r *GormContactRepository) FindByID(ctx context.Context, id uint) (*domain.Contact, error) {
	var c domain.Contact
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormContactRepository) ListByCompany(ctx context.Context, companyID uint) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id").
		Find(&contacts).Error
	return contacts, err
}

func (r *GormContactRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Contact{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "contact", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "contact", "update", "not_found")
		return ErrContactNotFound
	}
	observability.RecordRepositoryOperation(ctx, "contact", "update", "success")
	return nil
}

func (r *GormContactRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Contact{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "contact", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "contact", "delete_by_id", "not_found")
		return ErrContactNotFound
	}
	observability.RecordRepositoryOperation(ctx, "contact", "delete_by_id", "success")
	return nil
}
