package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=STUDENT TEACHER ADMIN"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=STUDENT TEACHER ADMIN"`
}

type authResponse struct {
	Token string          `json:"token,omitempty"`
	User  *domain.Profile `json:"user,omitempty"`
}

// SignUp registers a new student account.
//
// @Summary      Register a new student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.Name, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "account created"})
}

// Login authenticates through a role-specific entry point.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials and entry-point role"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		var rm *domain.RoleMismatchError
		if errors.As(err, &rm) {
			metrics.LoginsTotal.WithLabelValues("password", "role_mismatch").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("password", "denied").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("password", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Logout revokes the current session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.SignOut(c.Request().Context(), session.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session resolves the current session into application user state.
//
// @Summary      Current session user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	user := h.authService.Resolve(c.Request().Context(), session)
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// OAuthStart redirects to the provider's consent screen.
//
// @Summary      Start OAuth login
// @Tags         auth
// @Success      302
// @Router       /auth/oauth/google [get]
func (h *AuthHandler) OAuthStart(c echo.Context) error {
	url, err := h.authService.OAuthURL(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// OAuthCallback completes the OAuth flow.
//
// @Summary      OAuth callback
// @Tags         auth
// @Produce      json
// @Param        state  query     string  true  "Opaque state issued at start"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  map[string]string
// @Router       /auth/oauth/callback [get]
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing state or code")
	}

	result, err := h.authService.OAuthCallback(c.Request().Context(), state, code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("oauth", "denied").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("oauth", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}
