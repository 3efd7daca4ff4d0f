package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobpulse/internal/domain/tenant"
	"jobpulse/internal/pkg/jwt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthUsecase registers tenants and exchanges credentials for tokens.
type AuthUsecase struct {
	tenants tenant.Repository
	jwt     jwt.Service
	logger  *log.Logger
}

func NewAuthUsecase(tenants tenant.Repository, jwtSvc jwt.Service, logger *log.Logger) *AuthUsecase {
	return &AuthUsecase{tenants: tenants, jwt: jwtSvc, logger: logger}
}

type AuthResult struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
}

func (u *AuthUsecase) Register(ctx context.Context, email, secret string) (AuthResult, error) {
	if u == nil || u.tenants == nil {
		return AuthResult{}, ErrInvalidInput
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(secret) < 8 {
		return AuthResult{}, ErrInvalidInput
	}

	exists, err := u.tenants.ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	t := tenant.Tenant{
		ID:         uuid.New(),
		Email:      email,
		SecretHash: string(hash),
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.tenants.CreateTenant(ctx, t); err != nil {
		return AuthResult{}, err
	}

	token, err := u.jwt.Generate(t.ID, t.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if u.logger != nil {
		u.logger.Printf("[Auth] Tenant registered | tenant=%s", t.ID)
	}
	return AuthResult{TenantID: t.ID, Email: t.Email, Token: token}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, secret string) (AuthResult, error) {
	if u == nil || u.tenants == nil {
		return AuthResult{}, ErrInvalidInput
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || secret == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	t, err := u.tenants.GetTenantByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.SecretHash), []byte(secret)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := u.jwt.Generate(t.ID, t.Email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{TenantID: t.ID, Email: t.Email, Token: token}, nil
}
