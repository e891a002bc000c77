package service

import (
	"context"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/repository"
)

type AuthServiceInterface interface {
	ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Setup(ctx context.Context, in SetupInput) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Profile(ctx context.Context, userID uint) (*domain.User, error)
}

type UserServiceInterface interface {
	Create(ctx context.Context, in UserCreateInput) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	ListPaged(ctx context.Context, req repository.PageRequest) (repository.PageResult[domain.User], error)
	Update(ctx context.Context, id uint, in UserUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}
