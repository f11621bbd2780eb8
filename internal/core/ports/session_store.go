package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// SessionStore holds live sessions so that sign-out (and the role-mismatch
// corrective sign-out) actually revokes access, independent of JWT expiry.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	// Find returns domain.ErrSessionNotFound for unknown or revoked IDs.
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// OAuthStateStore issues and redeems single-use OAuth state values.
type OAuthStateStore interface {
	Issue(ctx context.Context) (string, error)
	// Redeem consumes the state. An unknown, expired or already-redeemed
	// state returns an error.
	Redeem(ctx context.Context, state string) error
}
