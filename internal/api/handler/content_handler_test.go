package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

// stubContentService records the patches the handler forwards and serves a
// fixed aggregate back.
type stubContentService struct {
	content domain.SiteContent

	heroPatch   *ports.HeroPatch
	statID      int
	statPatch   *ports.StatPatch
	statErr     error
	resetCalled bool
	added       *ports.AnnouncementInput
	deletedID   string
	deleteErr   error
}

func (s *stubContentService) Load(context.Context) error { return nil }
func (s *stubContentService) Content() domain.SiteContent { return s.content }

func (s *stubContentService) UpdateHero(p ports.HeroPatch) { s.heroPatch = &p }

func (s *stubContentService) UpdateStat(id int, p ports.StatPatch) error {
	s.statID, s.statPatch = id, &p
	return s.statErr
}

func (s *stubContentService) UpdateModule(int, ports.ModulePatch) error { return nil }
func (s *stubContentService) UpdateAbout(ports.AboutPatch) {}
func (s *stubContentService) UpdateAcademics(ports.AcademicsPatch) {}
func (s *stubContentService) UpdateAcademicLevel(int, ports.AcademicLevelPatch) error { return nil }
func (s *stubContentService) ResetToDefaults() { s.resetCalled = true }

func (s *stubContentService) AddAnnouncement(_ context.Context, in ports.AnnouncementInput) (*domain.Announcement, error) {
	s.added = &in
	return &domain.Announcement{ID: "a1", Title: in.Title, Type: in.Type}, nil
}

func (s *stubContentService) DeleteAnnouncement(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

func TestContentHandler_GetAlwaysIncludesAnnouncements(t *testing.T) {
	stub := &stubContentService{content: domain.DefaultSiteContent()}
	h := NewContentHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/content", "")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"announcements":[]`) {
		t.Fatalf("empty announcement list must still be present: %s", rec.Body.String())
	}
}

func TestContentHandler_UpdateHeroForwardsOnlyProvidedFields(t *testing.T) {
	stub := &stubContentService{content: domain.DefaultSiteContent()}
	h := NewContentHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/content/hero", `{"badge":"New Badge"}`)
	if err := h.UpdateHero(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.heroPatch == nil || stub.heroPatch.Badge == nil || *stub.heroPatch.Badge != "New Badge" {
		t.Fatalf("badge not forwarded: %+v", stub.heroPatch)
	}
	if stub.heroPatch.Description != nil {
		t.Fatalf("absent fields must stay nil: %+v", stub.heroPatch)
	}
}

func TestContentHandler_UpdateStatRejectsBadID(t *testing.T) {
	h := NewContentHandler(&stubContentService{content: domain.DefaultSiteContent()})

	c, _ := newTestContext(http.MethodPut, "/content/stats/abc", `{"val":"10"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := h.UpdateStat(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestContentHandler_UpdateStatForwardsID(t *testing.T) {
	stub := &stubContentService{content: domain.DefaultSiteContent()}
	h := NewContentHandler(stub)

	c, _ := newTestContext(http.MethodPut, "/content/stats/2", `{"val":"3K"}`)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.UpdateStat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.statID != 2 || stub.statPatch == nil || *stub.statPatch.Val != "3K" {
		t.Fatalf("patch not forwarded: id=%d patch=%+v", stub.statID, stub.statPatch)
	}
}

func TestContentHandler_Reset(t *testing.T) {
	stub := &stubContentService{content: domain.DefaultSiteContent()}
	h := NewContentHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/content/reset", "")
	if err := h.Reset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !stub.resetCalled {
		t.Fatalf("reset never reached the service")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnnouncementHandler_CreateValidatesType(t *testing.T) {
	h := NewAnnouncementHandler(&stubContentService{})

	c, _ := newTestContext(http.MethodPost, "/announcements",
		`{"title":"X","content":"Y","date":"2025-09-12","type":"urgent"}`)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %v", err)
	}
}

func TestAnnouncementHandler_Create(t *testing.T) {
	stub := &stubContentService{}
	h := NewAnnouncementHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/announcements",
		`{"title":"Sports Day","content":"Friday on the main ground.","date":"2025-09-12","type":"event"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.added == nil || stub.added.Type != domain.AnnouncementEvent {
		t.Fatalf("input not forwarded: %+v", stub.added)
	}
}

func TestAnnouncementHandler_Delete(t *testing.T) {
	stub := &stubContentService{}
	h := NewAnnouncementHandler(stub)

	c, rec := newTestContext(http.MethodDelete, "/announcements/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.deletedID != "a1" {
		t.Fatalf("expected delete of a1, got %q", stub.deletedID)
	}
}
