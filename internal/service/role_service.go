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

type RoleService struct {
	roleRepo repository.RoleRepository
}

type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	role := &domain.Role{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) GetByID(ctx context.Context, id uint) (*domain.Role, error) {
	return s.roleRepo.FindByID(ctx, id)
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *RoleService) Update(ctx context.Context, id uint, in RoleInput) (*domain.Role, error) {
	updates := map[string]any{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		updates["description"] = desc
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := s.roleRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.roleRepo.FindByID(ctx, id)
}

// Delete fails with ErrBadReference while any user still holds the role.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if err := s.roleRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrBadReference
		}
		return err
	}
	return nil
}
