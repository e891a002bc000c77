package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/emmott-systems/soporte-api/internal/domain"
	"github.com/emmott-systems/soporte-api/internal/repository"
)

func newUserServiceFixture(t *testing.T) (*UserService, repository.UserRepository) {
	t.Helper()
	repo := repository.NewUserRepository(newServiceDB(t, true))
	return NewUserService(repo), repo
}

func seedUser(t *testing.T, repo repository.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		FirstName:    "Ana",
		LastName:     "Rojas",
		Email:        email,
		PasswordHash: "hash",
		RoleID:       1,
		AreaID:       1,
		Status:       domain.UserStatusActive,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func strPtr(s string) *string                          { return &s }
func uintPtr(v uint) *uint                             { return &v }
func statusPtr(s domain.UserStatus) *domain.UserStatus { return &s }

func TestUserServiceCreate(t *testing.T) {
	t.Run("provisions a user without credentials", func(t *testing.T) {
		svc, repo := newUserServiceFixture(t)

		created, err := svc.Create(context.Background(), UserCreateInput{
			FirstName: "  Carla ",
			LastName:  "Mena",
			Email:     "carla@example.com",
			RoleID:    3,
			AreaID:    2,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.FirstName != "Carla" {
			t.Fatalf("expected trimmed first name, got %q", created.FirstName)
		}
		if created.Role.Name != "ANALYST" || created.Area.Name != "Desarrollo" {
			t.Fatalf("expected resolved role/area, got %q/%q", created.Role.Name, created.Area.Name)
		}
		if created.Status != domain.UserStatusActive {
			t.Fatalf("expected ACTIVE default, got %q", created.Status)
		}
		if created.PublicID == "" {
			t.Fatal("expected a public id")
		}

		// No stored hash means the account cannot authenticate.
		stored, err := repo.FindByEmailWithPassword(context.Background(), "carla@example.com")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if stored.PasswordHash != "" {
			t.Fatalf("expected empty password hash, got %q", stored.PasswordHash)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _ := newUserServiceFixture(t)

		cases := []struct {
			name string
			in   UserCreateInput
		}{
			{"blank first name", UserCreateInput{LastName: "M", Email: "a@example.com", RoleID: 1, AreaID: 1}},
			{"bad email", UserCreateInput{FirstName: "C", LastName: "M", Email: "not-an-email", RoleID: 1, AreaID: 1}},
			{"missing role", UserCreateInput{FirstName: "C", LastName: "M", Email: "a@example.com", AreaID: 1}},
			{"missing area", UserCreateInput{FirstName: "C", LastName: "M", Email: "a@example.com", RoleID: 1}},
			{"bad status", UserCreateInput{FirstName: "C", LastName: "M", Email: "a@example.com", RoleID: 1, AreaID: 1, Status: "FROZEN"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
			})
		}
	})

	t.Run("duplicate email maps to ErrEmailTaken", func(t *testing.T) {
		svc, repo := newUserServiceFixture(t)
		seedUser(t, repo, "dup@example.com")

		_, err := svc.Create(context.Background(), UserCreateInput{
			FirstName: "C", LastName: "M", Email: "dup@example.com", RoleID: 1, AreaID: 1,
		})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("duplicate rut maps to ErrIdentityTaken", func(t *testing.T) {
		svc, _ := newUserServiceFixture(t)

		if _, err := svc.Create(context.Background(), UserCreateInput{
			FirstName: "C", LastName: "M", Email: "uno@example.com", Rut: "11.111.111-1", RoleID: 1, AreaID: 1,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := svc.Create(context.Background(), UserCreateInput{
			FirstName: "D", LastName: "N", Email: "dos@example.com", Rut: "11.111.111-1", RoleID: 1, AreaID: 1,
		})
		if !errors.Is(err, ErrIdentityTaken) {
			t.Fatalf("expected ErrIdentityTaken, got %v", err)
		}
	})

	t.Run("unknown role maps to ErrBadReference", func(t *testing.T) {
		svc, _ := newUserServiceFixture(t)

		_, err := svc.Create(context.Background(), UserCreateInput{
			FirstName: "C", LastName: "M", Email: "ref@example.com", RoleID: 999, AreaID: 1,
		})
		if !errors.Is(err, ErrBadReference) {
			t.Fatalf("expected ErrBadReference, got %v", err)
		}
	})
}

func TestUserServiceUpdate(t *testing.T) {
	t.Run("applies partial edits", func(t *testing.T) {
		svc, repo := newUserServiceFixture(t)
		u := seedUser(t, repo, "edit@example.com")

		updated, err := svc.Update(context.Background(), u.ID, UserUpdateInput{
			FirstName: strPtr("  Beatriz "),
			RoleID:    uintPtr(2),
			Status:    statusPtr(domain.UserStatusSuspended),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.FirstName != "Beatriz" {
			t.Fatalf("expected trimmed first name, got %q", updated.FirstName)
		}
		if updated.Role.Name != "SUPERVISOR" {
			t.Fatalf("expected role SUPERVISOR, got %q", updated.Role.Name)
		}
		if updated.Status != domain.UserStatusSuspended {
			t.Fatalf("expected SUSPENDED, got %q", updated.Status)
		}
		if updated.LastName != "Rojas" {
			t.Fatalf("untouched field changed: %q", updated.LastName)
		}
	})

	t.Run("rejects empty and invalid fields", func(t *testing.T) {
		svc, repo := newUserServiceFixture(t)
		u := seedUser(t, repo, "invalid@example.com")

		cases := []struct {
			name string
			in   UserUpdateInput
		}{
			{"no fields", UserUpdateInput{}},
			{"blank first name", UserUpdateInput{FirstName: strPtr("  ")}},
			{"blank last name", UserUpdateInput{LastName: strPtr("")}},
			{"bad status", UserUpdateInput{Status: statusPtr("FROZEN")}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.Update(context.Background(), u.ID, tc.in); !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
			})
		}
	})

	t.Run("unknown role maps to ErrBadReference", func(t *testing.T) {
		svc, repo := newUserServiceFixture(t)
		u := seedUser(t, repo, "badref@example.com")

		_, err := svc.Update(context.Background(), u.ID, UserUpdateInput{RoleID: uintPtr(999)})
		if !errors.Is(err, ErrBadReference) {
			t.Fatalf("expected ErrBadReference, got %v", err)
		}
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		svc, _ := newUserServiceFixture(t)
		_, err := svc.Update(context.Background(), 404, UserUpdateInput{FirstName: strPtr("X")})
		if !errors.Is(err, repository.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserServiceListAndDelete(t *testing.T) {
	svc, repo := newUserServiceFixture(t)
	for i := 0; i < 3; i++ {
		seedUser(t, repo, fmt.Sprintf("user%d@example.com", i))
	}

	page, err := svc.ListPaged(context.Background(), repository.PageRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Fatalf("expected total=3 with 2 items, got total=%d items=%d", page.Total, len(page.Items))
	}

	if err := svc.Delete(context.Background(), page.Items[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), 404); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), page.Items[0].ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
}
