package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// CredentialRepository defines persistence for password-login material.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
}
