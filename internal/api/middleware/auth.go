package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

// Auth validates the JWT, confirms the referenced session is still live in
// the session store (revoked sessions fail even with a valid token), and
// injects the session into context.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing session reference")
			}

			session, err := sessions.Find(c.Request().Context(), sid)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session revoked or expired")
			}

			c.Set("session", session)
			c.Set("user_id", session.UserID)
			c.Set("role", string(session.Role))

			return next(c)
		}
	}
}

// SessionFromContext returns the session injected by Auth.
func SessionFromContext(c echo.Context) (*domain.Session, bool) {
	session, ok := c.Get("session").(*domain.Session)
	return session, ok
}
