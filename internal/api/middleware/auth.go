package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// SessionKey is the echo context key holding the resolved *domain.Session.
const SessionKey = "session"

// SessionResolver maps a bearer token to a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// Auth resolves the bearer token and injects the session into context.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrSessionInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				}
				return err
			}

			c.Set(SessionKey, session)
			return next(c)
		}
	}
}
