package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/domain/tenant"
	"jobpulse/internal/pkg/jwt"
)

type fakeTenantRepo struct {
	byEmail map[string]tenant.Tenant
	created []tenant.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{byEmail: map[string]tenant.Tenant{}}
}

func (f *fakeTenantRepo) CreateTenant(ctx context.Context, t tenant.Tenant) error {
	f.byEmail[t.Email] = t
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTenantRepo) GetTenantByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	for _, t := range f.byEmail {
		if t.ID == id {
			return t, nil
		}
	}
	return tenant.Tenant{}, tenant.ErrNotFound
}

func (f *fakeTenantRepo) GetTenantByEmail(ctx context.Context, email string) (tenant.Tenant, error) {
	t, ok := f.byEmail[email]
	if !ok {
		return tenant.Tenant{}, tenant.ErrNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	repo := newFakeTenantRepo()
	u := NewAuthUsecase(repo, jwt.NewHMACService("test-secret", time.Hour), nil)
	ctx := context.Background()

	reg, err := u.Register(ctx, "Dev@Example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if reg.Token == "" || reg.TenantID == uuid.Nil {
		t.Fatalf("incomplete result: %+v", reg)
	}
	if reg.Email != "dev@example.com" {
		t.Fatalf("email not normalized: %q", reg.Email)
	}
	if len(repo.created) != 1 || repo.created[0].SecretHash == "correct horse battery" {
		t.Fatalf("secret stored unhashed")
	}

	login, err := u.Login(ctx, "dev@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if login.TenantID != reg.TenantID {
		t.Fatalf("login resolved wrong tenant")
	}
}

func TestAuth_DuplicateEmailRejected(t *testing.T) {
	repo := newFakeTenantRepo()
	u := NewAuthUsecase(repo, jwt.NewHMACService("test-secret", time.Hour), nil)
	ctx := context.Background()

	if _, err := u.Register(ctx, "dev@example.com", "secret-enough"); err != nil {
		t.Fatalf("first register error: %v", err)
	}
	if _, err := u.Register(ctx, "dev@example.com", "secret-enough"); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_WrongSecretIsInvalidCredentials(t *testing.T) {
	repo := newFakeTenantRepo()
	u := NewAuthUsecase(repo, jwt.NewHMACService("test-secret", time.Hour), nil)
	ctx := context.Background()

	if _, err := u.Register(ctx, "dev@example.com", "secret-enough"); err != nil {
		t.Fatalf("register error: %v", err)
	}
	if _, err := u.Login(ctx, "dev@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := u.Login(ctx, "nobody@example.com", "whatever"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email must look identical, got %v", err)
	}
}

func TestAuth_ShortSecretRejected(t *testing.T) {
	u := NewAuthUsecase(newFakeTenantRepo(), jwt.NewHMACService("test-secret", time.Hour), nil)
	if _, err := u.Register(context.Background(), "dev@example.com", "short"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
