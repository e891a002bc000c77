package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/observability"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	FindByID(ctx context.Context, id uint) (*domain.Subscription, error)
	ListByCompany(ctx context.Context, companyID uint) ([]domain.Subscription, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormSubscriptionRepository struct{ db *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "subscription", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "subscription", "create", "success")
	return nil
}

func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uint) (*domain.Subscription, error) {
	var s domain.Subscription
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSubscriptionRepository) ListByCompany(ctx context.Context, companyID uint) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id").
		Find(&subs).Error
	return subs, err
}

func (r *GormSubscriptionRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "subscription", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "subscription", "update", "not_found")
		return ErrSubscriptionNotFound
	}
	observability.RecordRepositoryOperation(ctx, "subscription", "update", "success")
	return nil
}

func (r *GormSubscriptionRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Subscription{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "subscription", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "subscription", "delete_by_id", "not_found")
		return ErrSubscriptionNotFound
	}
	observability.RecordRepositoryOperation(ctx, "subscription", "delete_by_id", "success")
	return nil
}
