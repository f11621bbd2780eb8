package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// ConfigRepository defines persistence for the singleton site-content blob
// stored under the cms_content key.
type ConfigRepository interface {
	// Fetch loads the persisted blob. Returns domain.ErrContentNotFound
	// when no blob has been written yet.
	Fetch(ctx context.Context) (*domain.SiteContent, error)
	// Save upserts the whole blob under the cms_content key. The
	// announcements field must be stripped before persistence — it always
	// lives in its own collection.
	Save(ctx context.Context, content *domain.SiteContent) error
}
