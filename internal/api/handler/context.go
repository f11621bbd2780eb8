package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// fast-fails before any service call when it is absent: presence proves the
// middleware ran and the session store confirmed the login.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, ok := c.Get("session").(*domain.Session)
	if !ok || session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication session")
	}
	return session, nil
}

// intParam parses a numeric path parameter, rejecting garbage with a 400.
func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}
