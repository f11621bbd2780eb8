package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

type AnnouncementHandler struct {
	contentService ports.ContentService
}

func NewAnnouncementHandler(contentService ports.ContentService) *AnnouncementHandler {
	return &AnnouncementHandler{contentService: contentService}
}

type announcementRequest struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
	Date    string `json:"date"    validate:"required"`
	Type    string `json:"type"    validate:"required,oneof=general academic event"`
}

// List returns every published notice, newest first. Public: the landing
// page renders these before any login.
//
// @Summary      List announcements
// @Tags         announcements
// @Produce      json
// @Success      200  {array}  domain.Announcement
// @Router       /announcements [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	content := h.contentService.Content()
	announcements := content.Announcements
	if announcements == nil {
		announcements = []domain.Announcement{}
	}
	return c.JSON(http.StatusOK, announcements)
}

// Create publishes a new notice. Admin only.
//
// @Summary      Publish an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        body  body      announcementRequest  true  "Notice"
// @Success      201   {object}  domain.Announcement
// @Failure      400   {object}  map[string]string
// @Router       /announcements [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	var req announcementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.contentService.AddAnnouncement(c.Request().Context(), ports.AnnouncementInput{
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
		Type:    domain.AnnouncementType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete removes a notice by ID. Admin only.
//
// @Summary      Delete an announcement
// @Tags         announcements
// @Produce      json
// @Param        id   path      string  true  "Announcement ID"
// @Success      204  "deleted"
// @Failure      404  {object}  map[string]string
// @Router       /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	if err := h.contentService.DeleteAnnouncement(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
