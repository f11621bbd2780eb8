package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

type ContentHandler struct {
	content ports.ContentService
}

func NewContentHandler(content ports.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type heroRequest struct {
	Badge          *string `json:"badge"`
	TitlePrefix    *string `json:"title_prefix"`
	TitleHighlight *string `json:"title_highlight"`
	Description    *string `json:"description"`
}

type statRequest struct {
	Val   *string `json:"val"`
	Label *string `json:"label"`
}

type moduleRequest struct {
	Title *string `json:"title"`
	Desc  *string `json:"desc"`
	Image *string `json:"image"`
	Name  *string `json:"name"`
}

type aboutRequest struct {
	History          *string  `json:"history"`
	PrincipalMessage *string  `json:"principal_message"`
	PrincipalName    *string  `json:"principal_name"`
	PrincipalImage   *string  `json:"principal_image"`
	Achievements     []string `json:"achievements"`
}

type academicsRequest struct {
	Tagline        *string `json:"tagline"`
	SubTagline     *string `json:"sub_tagline"`
	EvaluationText *string `json:"evaluation_text"`
}

type academicLevelRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// contentResponse always carries the announcements array, even when empty.
type contentResponse struct {
	Hero          domain.HeroContent      `json:"hero"`
	Stats         []domain.StatItem       `json:"stats"`
	Modules       []domain.ModuleContent  `json:"modules"`
	About         domain.AboutContent     `json:"about"`
	Academics     domain.AcademicsContent `json:"academics"`
	Announcements []domain.Announcement   `json:"announcements"`
}

func toContentResponse(c domain.SiteContent) contentResponse {
	if c.Announcements == nil {
		c.Announcements = []domain.Announcement{}
	}
	return contentResponse{
		Hero:          c.Hero,
		Stats:         c.Stats,
		Modules:       c.Modules,
		About:         c.About,
		Academics:     c.Academics,
		Announcements: c.Announcements,
	}
}

// Get returns the whole editable site content.
//
// @Summary      Site content
// @Tags         content
// @Produce      json
// @Success      200  {object}  contentResponse
// @Router       /content [get]
func (h *ContentHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateHero edits the landing banner. Applied to the in-memory aggregate
// synchronously; persistence happens asynchronously.
//
// @Summary      Update hero content
// @Tags         content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200  {object}  contentResponse
// @Router       /content/hero [put]
func (h *ContentHandler) UpdateHero(c echo.Context) error {
	var req heroRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.content.UpdateHero(ports.HeroPatch{
		Badge:          req.Badge,
		TitlePrefix:    req.TitlePrefix,
		TitleHighlight: req.TitleHighlight,
		Description:    req.Description,
	})
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateStat edits one stat item by ID.
func (h *ContentHandler) UpdateStat(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req statRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.content.UpdateStat(id, ports.StatPatch{Val: req.Val, Label: req.Label}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateModule edits one landing-page module card by ID.
func (h *ContentHandler) UpdateModule(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req moduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	patch := ports.ModulePatch{Title: req.Title, Desc: req.Desc, Image: req.Image, Name: req.Name}
	if err := h.content.UpdateModule(id, patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateAbout edits the about page.
func (h *ContentHandler) UpdateAbout(c echo.Context) error {
	var req aboutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.content.UpdateAbout(ports.AboutPatch{
		History:          req.History,
		PrincipalMessage: req.PrincipalMessage,
		PrincipalName:    req.PrincipalName,
		PrincipalImage:   req.PrincipalImage,
		Achievements:     req.Achievements,
	})
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateAcademics edits the academics page copy.
func (h *ContentHandler) UpdateAcademics(c echo.Context) error {
	var req academicsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.content.UpdateAcademics(ports.AcademicsPatch{
		Tagline:        req.Tagline,
		SubTagline:     req.SubTagline,
		EvaluationText: req.EvaluationText,
	})
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// UpdateAcademicLevel edits one academic level by ID.
func (h *ContentHandler) UpdateAcademicLevel(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req academicLevelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.content.UpdateAcademicLevel(id, ports.AcademicLevelPatch{Title: req.Title, Description: req.Description}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}

// Reset restores the fixed default content. Announcements are untouched.
//
// @Summary      Reset content to defaults
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  contentResponse
// @Router       /content/reset [post]
func (h *ContentHandler) Reset(c echo.Context) error {
	h.content.ResetToDefaults()
	return c.JSON(http.StatusOK, toContentResponse(h.content.Content()))
}
