package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/repository"
)

// CompanyService owns companies and their nested contacts and subscriptions.
type CompanyService struct {
	companyRepo      repository.CompanyRepository
	contactRepo      repository.ContactRepository
	subscriptionRepo repository.SubscriptionRepository
}

type CompanyInput struct {
	Name string `json:"name"`
	Rut  string `json:"rut"`
}

type ContactInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SubscriptionInput struct {
	Plan     string                     `json:"plan"`
	Status   *domain.SubscriptionStatus `json:"status"`
	StartsAt *time.Time                 `json:"starts_at"`
	EndsAt   *time.Time                 `json:"ends_at"`
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	subscriptionRepo repository.SubscriptionRepository,
) *CompanyService {
	return &CompanyService{
		companyRepo:      companyRepo,
		contactRepo:      contactRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	company := &domain.Company{Name: name, Rut: normalizeRut(in.Rut)}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.companyRepo.FindByID(ctx, company.ID)
}

func (s *CompanyService) GetByID(ctx context.Context, id uint) (*domain.Company, error) {
	return s.companyRepo.FindByID(ctx, id)
}

func (s *CompanyService) ListPaged(ctx context.Context, req repository.PageRequest) (repository.PageResult[domain.Company], error) {
	return s.companyRepo.ListPaged(ctx, req)
}

func (s *CompanyService) Update(ctx context.Context, id uint, in CompanyInput) (*domain.Company, error) {
	updates := map[string]any{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if rut := normalizeRut(in.Rut); rut != nil {
		updates["rut"] = *rut
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := s.companyRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.companyRepo.FindByID(ctx, id)
}

// Delete removes the company together with its contacts and subscriptions.
func (s *CompanyService) Delete(ctx context.Context, id uint) error {
	return s.companyRepo.DeleteByID(ctx, id)
}

func (s *CompanyService) AddContact(ctx context.Context, companyID uint, in ContactInput) (*domain.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email is not valid", ErrValidation)
		}
	}
	contact := &domain.Contact{
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrBadReference
		}
		return nil, err
	}
	return contact, nil
}

func (s *CompanyService) ListContacts(ctx context.Context, companyID uint) ([]domain.Contact, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.contactRepo.ListByCompany(ctx, companyID)
}

func (s *CompanyService) GetContact(ctx context.Context, id uint) (*domain.Contact, error) {
	return s.contactRepo.FindByID(ctx, id)
}

func (s *CompanyService) UpdateContact(ctx context.Context, id uint, in ContactInput) (*domain.Contact, error) {
	updates := map[string]any{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email is not valid", ErrValidation)
		}
		updates["email"] = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := s.contactRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.contactRepo.FindByID(ctx, id)
}

func (s *CompanyService) DeleteContact(ctx context.Context, id uint) error {
	return s.contactRepo.DeleteByID(ctx, id)
}

func (s *CompanyService) AddSubscription(ctx context.Context, companyID uint, in SubscriptionInput) (*domain.Subscription, error) {
	plan := strings.TrimSpace(in.Plan)
	if plan == "" {
		return nil, fmt.Errorf("%w: plan is required", ErrValidation)
	}
	status := domain.SubscriptionStatusActive
	if in.Status != nil {
		if !validSubscriptionStatus(*in.Status) {
			return nil, fmt.Errorf("%w: status must be ACTIVE, SUSPENDED, or CANCELLED", ErrValidation)
		}
		status = *in.Status
	}
	startsAt := time.Now().UTC()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}
	if in.EndsAt != nil && !in.EndsAt.After(startsAt) {
		return nil, fmt.Errorf("%w: ends_at must be after starts_at", ErrValidation)
	}
	sub := &domain.Subscription{
		CompanyID: companyID,
		Plan:      plan,
		Status:    status,
		StartsAt:  startsAt,
		EndsAt:    in.EndsAt,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrBadReference
		}
		return nil, err
	}
	return sub, nil
}

func (s *CompanyService) ListSubscriptions(ctx context.Context, companyID uint) ([]domain.Subscription, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.subscriptionRepo.ListByCompany(ctx, companyID)
}

func (s *CompanyService) GetSubscription(ctx context.Context, id uint) (*domain.Subscription, error) {
	return s.subscriptionRepo.FindByID(ctx, id)
}

func (s *CompanyService) UpdateSubscription(ctx context.Context, id uint, in SubscriptionInput) (*domain.Subscription, error) {
	updates := map[string]any{}
	if plan := strings.TrimSpace(in.Plan); plan != "" {
		updates["plan"] = plan
	}
	if in.Status != nil {
		if !validSubscriptionStatus(*in.Status) {
			return nil, fmt.Errorf("%w: status must be ACTIVE, SUSPENDED, or CANCELLED", ErrValidation)
		}
		updates["status"] = *in.Status
	}
	if in.StartsAt != nil {
		updates["starts_at"] = *in.StartsAt
	}
	if in.EndsAt != nil {
		updates["ends_at"] = *in.EndsAt
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := s.subscriptionRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.subscriptionRepo.FindByID(ctx, id)
}

func (s *CompanyService) DeleteSubscription(ctx context.Context, id uint) error {
	return s.subscriptionRepo.DeleteByID(ctx, id)
}

func validSubscriptionStatus(status domain.SubscriptionStatus) bool {
	switch status {
	case domain.SubscriptionStatusActive, domain.SubscriptionStatusSuspended, domain.SubscriptionStatusCancelled:
		return true
	default:
		return false
	}
}
