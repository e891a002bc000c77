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

type AreaService struct {
	areaRepo repository.AreaRepository
}

type AreaInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewAreaService(areaRepo repository.AreaRepository) *AreaService {
	return &AreaService{areaRepo: areaRepo}
}

func (s *AreaService) Create(ctx context.Context, in AreaInput) (*domain.Area, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	area := &domain.Area{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.areaRepo.Create(ctx, area); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return area, nil
}

func (s *AreaService) GetByID(ctx context.Context, id uint) (*domain.Area, error) {
	return s.areaRepo.FindByID(ctx, id)
}

func (s *AreaService) List(ctx context.Context) ([]domain.Area, error) {
	return s.areaRepo.List(ctx)
}

func (s *AreaService) Update(ctx context.Context, id uint, in AreaInput) (*domain.Area, error) {
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
	if err := s.areaRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.areaRepo.FindByID(ctx, id)
}

func (s *AreaService) Delete(ctx context.Context, id uint) error {
	if err := s.areaRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrBadReference
		}
		return err
	}
	return nil
}
