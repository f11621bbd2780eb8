package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// ProfileRepository defines persistence for durable user profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, id string, patch ProfilePatch) (*domain.Profile, error)
	// ListExcept returns every profile except the given user, for the
	// messenger contact list.
	ListExcept(ctx context.Context, excludeID string) ([]*domain.Profile, error)
}

// ProfilePatch carries the self-service editable fields. Nil means "leave
// unchanged". The role is deliberately absent: it is immutable through this
// surface.
type ProfilePatch struct {
	Name   *string
	Phone  *string
	Bio    *string
	Avatar *string
}

// ProfileService exposes profile self-service.
type ProfileService interface {
	Update(ctx context.Context, userID string, patch ProfilePatch) (*domain.Profile, error)
}
