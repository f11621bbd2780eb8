package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// AnnouncementRepository defines persistence for school notices.
type AnnouncementRepository interface {
	// List returns all announcements, newest first.
	List(ctx context.Context) ([]*domain.Announcement, error)
	// Insert persists a new announcement and returns it with the
	// store-assigned ID and creation timestamp.
	Insert(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	// Delete removes an announcement by ID. Returns
	// domain.ErrAnnouncementNotFound when no row matched.
	Delete(ctx context.Context, id string) error
}
