package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/ports"
)

type ProfileHandler struct {
	authService    ports.AuthService
	profileService ports.ProfileService
}

func NewProfileHandler(authService ports.AuthService, profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{authService: authService, profileService: profileService}
}

type updateProfileRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1"`
	Phone  *string `json:"phone"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

// Get returns the caller's profile, falling back to session-derived
// defaults when the profile row is missing.
//
// @Summary      Fetch own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.authService.Resolve(c.Request().Context(), session))
}

// Update applies the self-service editable fields and returns the updated
// row. Role and email are not editable here.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.profileService.Update(c.Request().Context(), session.UserID, ports.ProfilePatch{
		Name:   req.Name,
		Phone:  req.Phone,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
