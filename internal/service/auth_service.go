package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/config"
	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/repository"
	"github.com/emmott-systems/soporte-api/internal/security"
)

const minPasswordLen = 6

type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	jwt      *security.JWTManager
}

type LoginResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type SetupInput struct {
	Rut       string `json:"rut"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type RegisterInput struct {
	Rut       string `json:"rut"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	RoleID    uint   `json:"role_id"`
	AreaID    uint   `json:"area_id"`
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, jwt *security.JWTManager) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, jwt: jwt}
}

// ValidateCredentials resolves email and password to a sanitized user. Every
// failure mode collapses into ErrInvalidCredentials so response timing and
// content do not reveal whether the account exists.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := security.VerifyPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// Setup creates the very first user as an administrator. It refuses with
// ErrAlreadyInitialized once any user exists, including when a concurrent
// setup wins the race.
func (s *AuthService) Setup(ctx context.Context, in SetupInput) (*LoginResult, error) {
	if err := validateSetupInput(in); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Rut:          normalizeRut(in.Rut),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		RoleID:       s.cfg.BootstrapRoleID,
		AreaID:       s.cfg.BootstrapAreaID,
		Status:       domain.UserStatusActive,
	}
	if err := s.userRepo.CreateFirst(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsersAlreadyExist),
			errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyInitialized
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, ErrMissingBootstrapRefs
		}
		return nil, err
	}
	fresh, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueToken(fresh)
}

// Register creates an additional user with an explicit role and area. Unlike
// Setup it requires the caller to already hold a valid token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}
	taken, err := s.userRepo.ExistsByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Rut:          normalizeRut(in.Rut),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		RoleID:       in.RoleID,
		AreaID:       in.AreaID,
		Status:       domain.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		// The storage backstop covers the email race and the rut index, so
		// it cannot claim the email specifically.
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrIdentityTaken
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, ErrBadReference
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

// Profile returns the sanitized user behind an authenticated request.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) issueToken(user *domain.User) (*LoginResult, error) {
	token, err := s.jwt.Sign(user.ID, user.Email, user.Role.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.cfg.JWTTTL),
	}, nil
}

func validateSetupInput(in SetupInput) error {
	if err := validateIdentity(in.FirstName, in.LastName, in.Email, in.Password); err != nil {
		return err
	}
	return nil
}

func validateRegisterInput(in RegisterInput) error {
	if err := validateIdentity(in.FirstName, in.LastName, in.Email, in.Password); err != nil {
		return err
	}
	if in.RoleID == 0 {
		return fmt.Errorf("%w: role_id is required", ErrValidation)
	}
	if in.AreaID == 0 {
		return fmt.Errorf("%w: area_id is required", ErrValidation)
	}
	return nil
}

func validateIdentity(firstName, lastName, email, password string) error {
	if strings.TrimSpace(firstName) == "" {
		return fmt.Errorf("%w: first_name is required", ErrValidation)
	}
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: last_name is required", ErrValidation)
	}
	if err := validateEmail(strings.TrimSpace(email)); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrValidation)
	}
	return nil
}

func normalizeRut(rut string) *string {
	trimmed := strings.TrimSpace(rut)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
