package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Role mismatch carries the expected role in its message and must
	// surface verbatim: the session is already revoked by the service.
	var rm *domain.RoleMismatchError
	if errors.As(err, &rm) {
		return http.StatusForbidden, rm.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "session revoked or expired"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrRoleNotAllowed):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrOAuthState):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrAnnouncementNotFound):
		return http.StatusNotFound, "announcement not found"
	case errors.Is(err, domain.ErrContentItemNotFound):
		return http.StatusNotFound, "content item not found"
	case errors.Is(err, domain.ErrContentNotFound):
		return http.StatusNotFound, "site content not found"
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrMessageNotSent):
		// The wrapped cause stays server-side; the client only learns
		// that delivery failed.
		return http.StatusInternalServerError, domain.ErrMessageNotSent.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
