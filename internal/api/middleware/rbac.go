package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// RequireTool admits only sessions opened for one of the given tools. It must
// run after Auth.
func RequireTool(tools ...domain.Tool) echo.MiddlewareFunc {
	allowed := make(map[domain.Tool]struct{}, len(tools))
	for _, t := range tools {
		allowed[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get(SessionKey).(*domain.Session)
			if session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			if _, ok := allowed[session.Tool]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrWrongTool.Error()})
			}
			return next(c)
		}
	}
}
