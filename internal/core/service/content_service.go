package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/metrics"
)

const persistTimeout = 10 * time.Second

// ContentService is the single in-memory owner of the editable site
// content. Blob-level mutations apply locally first and persist the whole
// blob asynchronously through a coalescing writer goroutine, so writes hit
// the store in mutation order and the latest state always wins. There is no
// conflict detection between concurrent editors: last writer wins at blob
// granularity.
//
// Announcements are different: they live in their own collection, creation
// and deletion go to the store first and only touch local state on success.
type ContentService struct {
	config        ports.ConfigRepository
	announcements ports.AnnouncementRepository
	log           zerolog.Logger

	mu      sync.RWMutex
	content domain.SiteContent

	// dirty carries at most one pending persist signal; the worker reads
	// the current aggregate when it wakes, so bursts of edits coalesce
	// into one write.
	dirty chan struct{}
}

func NewContentService(config ports.ConfigRepository, announcements ports.AnnouncementRepository, log zerolog.Logger) *ContentService {
	return &ContentService{
		config:        config,
		announcements: announcements,
		log:           log,
		content:       domain.DefaultSiteContent(),
		dirty:         make(chan struct{}, 1),
	}
}

// Start launches the persist worker. It stops when ctx is cancelled.
func (s *ContentService) Start(ctx context.Context) {
	go s.runPersister(ctx)
}

// Load fetches the configuration blob and the announcements in parallel.
// A missing blob is initialised to the fixed defaults and persisted before
// continuing. Fetched content is merged over defaults field by field, so
// fields introduced after the blob was last written still get defaults.
func (s *ContentService) Load(ctx context.Context) error {
	var (
		fetched *domain.SiteContent
		notices []*domain.Announcement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.config.Fetch(gctx)
		if errors.Is(err, domain.ErrContentNotFound) {
			return nil
		}
		fetched = c
		return err
	})
	g.Go(func() error {
		n, err := s.announcements.List(gctx)
		notices = n
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	content := domain.DefaultSiteContent()
	if fetched == nil {
		if err := s.config.Save(ctx, &content); err != nil {
			return err
		}
	} else {
		mergeContent(&content, fetched)
	}

	content.Announcements = make([]domain.Announcement, 0, len(notices))
	for _, n := range notices {
		content.Announcements = append(content.Announcements, *n)
	}

	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
	return nil
}

// Content returns a snapshot of the aggregate.
func (s *ContentService) Content() domain.SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneContent(s.content)
}

func (s *ContentService) UpdateHero(patch ports.HeroPatch) {
	s.mu.Lock()
	applyString(&s.content.Hero.Badge, patch.Badge)
	applyString(&s.content.Hero.TitlePrefix, patch.TitlePrefix)
	applyString(&s.content.Hero.TitleHighlight, patch.TitleHighlight)
	applyString(&s.content.Hero.Description, patch.Description)
	s.mu.Unlock()
	s.markDirty()
}

func (s *ContentService) UpdateStat(id int, patch ports.StatPatch) error {
	s.mu.Lock()
	found := false
	for i := range s.content.Stats {
		if s.content.Stats[i].ID == id {
			applyString(&s.content.Stats[i].Val, patch.Val)
			applyString(&s.content.Stats[i].Label, patch.Label)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return domain.ErrContentItemNotFound
	}
	s.markDirty()
	return nil
}

func (s *ContentService) UpdateModule(id int, patch ports.ModulePatch) error {
	s.mu.Lock()
	found := false
	for i := range s.content.Modules {
		if s.content.Modules[i].ID == id {
			applyString(&s.content.Modules[i].Title, patch.Title)
			applyString(&s.content.Modules[i].Desc, patch.Desc)
			applyString(&s.content.Modules[i].Image, patch.Image)
			applyString(&s.content.Modules[i].Name, patch.Name)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return domain.ErrContentItemNotFound
	}
	s.markDirty()
	return nil
}

func (s *ContentService) UpdateAbout(patch ports.AboutPatch) {
	s.mu.Lock()
	applyString(&s.content.About.History, patch.History)
	applyString(&s.content.About.PrincipalMessage, patch.PrincipalMessage)
	applyString(&s.content.About.PrincipalName, patch.PrincipalName)
	applyString(&s.content.About.PrincipalImage, patch.PrincipalImage)
	if patch.Achievements != nil {
		s.content.About.Achievements = append([]string(nil), patch.Achievements...)
	}
	s.mu.Unlock()
	s.markDirty()
}

func (s *ContentService) UpdateAcademics(patch ports.AcademicsPatch) {
	s.mu.Lock()
	applyString(&s.content.Academics.Tagline, patch.Tagline)
	applyString(&s.content.Academics.SubTagline, patch.SubTagline)
	applyString(&s.content.Academics.EvaluationText, patch.EvaluationText)
	s.mu.Unlock()
	s.markDirty()
}

func (s *ContentService) UpdateAcademicLevel(id int, patch ports.AcademicLevelPatch) error {
	s.mu.Lock()
	found := false
	for i := range s.content.Academics.Levels {
		if s.content.Academics.Levels[i].ID == id {
			applyString(&s.content.Academics.Levels[i].Title, patch.Title)
			applyString(&s.content.Academics.Levels[i].Description, patch.Description)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return domain.ErrContentItemNotFound
	}
	s.markDirty()
	return nil
}

// ResetToDefaults restores the fixed default content. Announcements are
// left untouched: resets never reach the announcements store.
func (s *ContentService) ResetToDefaults() {
	s.mu.Lock()
	notices := s.content.Announcements
	s.content = domain.DefaultSiteContent()
	s.content.Announcements = notices
	s.mu.Unlock()
	s.markDirty()
}

// AddAnnouncement inserts remotely first — the ID must come from the store
// — and prepends the confirmed row to local state only on success.
func (s *ContentService) AddAnnouncement(ctx context.Context, in ports.AnnouncementInput) (*domain.Announcement, error) {
	created, err := s.announcements.Insert(ctx, &domain.Announcement{
		Title:   in.Title,
		Content: in.Content,
		Date:    in.Date,
		Type:    in.Type,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.content.Announcements = append([]domain.Announcement{*created}, s.content.Announcements...)
	s.mu.Unlock()

	s.log.Info().Str("announcement_id", created.ID).Str("type", string(created.Type)).Msg("announcement published")
	return created, nil
}

// DeleteAnnouncement removes the row remotely and filters local state only
// on success; a failed delete leaves the local list unchanged.
func (s *ContentService) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.announcements.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.content.Announcements[:0]
	for _, a := range s.content.Announcements {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.content.Announcements = kept
	s.mu.Unlock()
	return nil
}

func (s *ContentService) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *ContentService) runPersister(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.dirty:
			snapshot := s.Content()
			pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			err := s.config.Save(pctx, &snapshot)
			cancel()
			if err != nil {
				// Local optimistic state is deliberately not rolled
				// back; the gap is surfaced through logs and metrics.
				metrics.ContentPersistErrorsTotal.Inc()
				s.log.Error().Err(err).Msg("content blob persistence failed")
			}
		}
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// mergeContent overlays fetched sections onto the defaults. Zero-valued
// fields in the fetched blob keep their defaults, which keeps old persisted
// blobs forward compatible with newly introduced fields.
func mergeContent(dst, src *domain.SiteContent) {
	applyNonEmpty(&dst.Hero.Badge, src.Hero.Badge)
	applyNonEmpty(&dst.Hero.TitlePrefix, src.Hero.TitlePrefix)
	applyNonEmpty(&dst.Hero.TitleHighlight, src.Hero.TitleHighlight)
	applyNonEmpty(&dst.Hero.Description, src.Hero.Description)

	if len(src.Stats) > 0 {
		dst.Stats = append([]domain.StatItem(nil), src.Stats...)
	}
	if len(src.Modules) > 0 {
		dst.Modules = append([]domain.ModuleContent(nil), src.Modules...)
	}

	applyNonEmpty(&dst.About.History, src.About.History)
	applyNonEmpty(&dst.About.PrincipalMessage, src.About.PrincipalMessage)
	applyNonEmpty(&dst.About.PrincipalName, src.About.PrincipalName)
	applyNonEmpty(&dst.About.PrincipalImage, src.About.PrincipalImage)
	if len(src.About.Achievements) > 0 {
		dst.About.Achievements = append([]string(nil), src.About.Achievements...)
	}

	applyNonEmpty(&dst.Academics.Tagline, src.Academics.Tagline)
	applyNonEmpty(&dst.Academics.SubTagline, src.Academics.SubTagline)
	applyNonEmpty(&dst.Academics.EvaluationText, src.Academics.EvaluationText)
	if len(src.Academics.Levels) > 0 {
		dst.Academics.Levels = append([]domain.AcademicLevel(nil), src.Academics.Levels...)
	}
}

func applyNonEmpty(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func cloneContent(c domain.SiteContent) domain.SiteContent {
	out := c
	out.Stats = append([]domain.StatItem(nil), c.Stats...)
	out.Modules = append([]domain.ModuleContent(nil), c.Modules...)
	out.About.Achievements = append([]string(nil), c.About.Achievements...)
	out.Academics.Levels = append([]domain.AcademicLevel(nil), c.Academics.Levels...)
	out.Announcements = append([]domain.Announcement(nil), c.Announcements...)
	return out
}
