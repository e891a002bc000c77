package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/observability"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrUsersAlreadyExist is returned by CreateFirst when the users table is
	// not empty; the bootstrap endpoint treats it as a permanent refusal.
	ErrUsersAlreadyExist = errors.New("users already exist")
)

// passwordHashColumn is omitted from every select except the explicit
// credential lookup, so a sanitized user view can never leak the hash.
const passwordHashColumn = "password_hash"

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateFirst persists user only when the users table is empty, running
	// the count check and the insert in one transaction. Returns
	// ErrUsersAlreadyExist otherwise.
	CreateFirst(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailWithPassword is the only query that selects the password
	// hash. Callers must strip it before the user leaves the auth core.
	FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.User], error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create", "success")
	return nil
}

func (r *GormUserRepository) CreateFirst(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsersAlreadyExist
		}
		return tx.Create(user).Error
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrUsersAlreadyExist) {
			outcome = "refused"
		}
		observability.RecordRepositoryOperation(ctx, "user", "create_first", outcome)
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create_first", "success")
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Omit(passwordHashColumn).
		Preload("Role").Preload("Area").
		First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Omit(passwordHashColumn).
		Preload("Role").Preload("Area").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Role").Preload("Area").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.User], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.User]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "list_paged", "error")
		return PageResult[domain.User]{}, err
	}
	offset := (normalized.Page - 1) * normalized.PageSize
	err := r.db.WithContext(ctx).
		Omit(passwordHashColumn).
		Preload("Role").Preload("Area").
		Order("id").
		Offset(offset).Limit(normalized.PageSize).
		Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "list_paged", "error")
		return PageResult[domain.User]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(ctx, "user", "list_paged", "success")
	return result, nil
}

func (r *GormUserRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	// Map-based updates so the password hash column is never rewritten by
	// profile or administration edits.
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "update", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "update", "success")
	return nil
}

func (r *GormUserRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "delete_by_id", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "delete_by_id", "success")
	return nil
}
