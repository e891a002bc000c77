package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UserCreateInput struct {
	Rut       string            `json:"rut"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	RoleID    uint              `json:"role_id"`
	AreaID    uint              `json:"area_id"`
	Status    domain.UserStatus `json:"status"`
}

type UserUpdateInput struct {
	FirstName *string            `json:"first_name"`
	LastName  *string            `json:"last_name"`
	RoleID    *uint              `json:"role_id"`
	AreaID    *uint              `json:"area_id"`
	Status    *domain.UserStatus `json:"status"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create provisions a user without credentials. The account cannot log in
// until a password is set through the registration flow.
func (s *UserService) Create(ctx context.Context, in UserCreateInput) (*domain.User, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name is required", ErrValidation)
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("%w: last_name is required", ErrValidation)
	}
	if err := validateEmail(strings.TrimSpace(in.Email)); err != nil {
		return nil, err
	}
	if in.RoleID == 0 {
		return nil, fmt.Errorf("%w: role_id is required", ErrValidation)
	}
	if in.AreaID == 0 {
		return nil, fmt.Errorf("%w: area_id is required", ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = domain.UserStatusActive
	}
	if !validUserStatus(status) {
		return nil, fmt.Errorf("%w: status must be ACTIVE, INACTIVE, or SUSPENDED", ErrValidation)
	}
	taken, err := s.userRepo.ExistsByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	user := &domain.User{
		Rut:       normalizeRut(in.Rut),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		RoleID:    in.RoleID,
		AreaID:    in.AreaID,
		Status:    status,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrIdentityTaken
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, ErrBadReference
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) ListPaged(ctx context.Context, req repository.PageRequest) (repository.PageResult[domain.User], error) {
	return s.userRepo.ListPaged(ctx, req)
}

// Update applies a partial edit. Password changes go through the auth flow,
// never through here.
func (s *UserService) Update(ctx context.Context, id uint, in UserUpdateInput) (*domain.User, error) {
	updates := map[string]any{}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first_name cannot be empty", ErrValidation)
		}
		updates["first_name"] = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, fmt.Errorf("%w: last_name cannot be empty", ErrValidation)
		}
		updates["last_name"] = name
	}
	if in.RoleID != nil {
		updates["role_id"] = *in.RoleID
	}
	if in.AreaID != nil {
		updates["area_id"] = *in.AreaID
	}
	if in.Status != nil {
		if !validUserStatus(*in.Status) {
			return nil, fmt.Errorf("%w: status must be ACTIVE, INACTIVE, or SUSPENDED", ErrValidation)
		}
		updates["status"] = *in.Status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := s.userRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrBadReference
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.userRepo.DeleteByID(ctx, id)
}

func validUserStatus(status domain.UserStatus) bool {
	switch status {
	case domain.UserStatusActive, domain.UserStatusInactive, domain.UserStatusSuspended:
		return true
	default:
		return false
	}
}
