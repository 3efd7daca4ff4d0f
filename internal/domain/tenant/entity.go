package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("tenant not found")

type Tenant struct {
	ID         uuid.UUID
	Email      string
	SecretHash string
	CreatedAt  time.Time
}

type Repository interface {
	CreateTenant(ctx context.Context, t Tenant) error
	GetTenantByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	GetTenantByEmail(ctx context.Context, email string) (Tenant, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
