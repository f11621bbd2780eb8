package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// HeroPatch carries partial hero edits. Nil fields are left unchanged.
type HeroPatch struct {
	Badge          *string
	TitlePrefix    *string
	TitleHighlight *string
	Description    *string
}

// StatPatch carries partial edits to one stat item.
type StatPatch struct {
	Val   *string
	Label *string
}

// ModulePatch carries partial edits to one landing-page module card.
type ModulePatch struct {
	Title *string
	Desc  *string
	Image *string
	Name  *string
}

// AboutPatch carries partial edits to the about page.
type AboutPatch struct {
	History          *string
	PrincipalMessage *string
	PrincipalName    *string
	PrincipalImage   *string
	Achievements     []string
}

// AcademicsPatch carries partial edits to the academics page (levels are
// edited individually via UpdateAcademicLevel).
type AcademicsPatch struct {
	Tagline        *string
	SubTagline     *string
	EvaluationText *string
}

// AcademicLevelPatch carries partial edits to one academic level.
type AcademicLevelPatch struct {
	Title       *string
	Description *string
}

// AnnouncementInput is the admin-submitted notice payload.
type AnnouncementInput struct {
	Title   string
	Content string
	Date    string
	Type    domain.AnnouncementType
}

// ContentService is the single in-memory owner of the editable site
// content: read-through on load, write-through on mutation. Blob-level
// mutations apply locally first (optimistic) and persist asynchronously;
// announcement create/delete only apply locally after the store confirms.
type ContentService interface {
	// Load fetches the blob and the announcements, seeding and persisting
	// defaults when no blob exists yet. Must be called once at startup.
	Load(ctx context.Context) error
	Content() domain.SiteContent

	UpdateHero(patch HeroPatch)
	UpdateStat(id int, patch StatPatch) error
	UpdateModule(id int, patch ModulePatch) error
	UpdateAbout(patch AboutPatch)
	UpdateAcademics(patch AcademicsPatch)
	UpdateAcademicLevel(id int, patch AcademicLevelPatch) error
	ResetToDefaults()

	AddAnnouncement(ctx context.Context, in AnnouncementInput) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}
