package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/api/metrics"
	"github.com/recordkeep/records-system/internal/api/middleware"
	"github.com/recordkeep/records-system/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware. A missing
// or non-authenticated session is rejected before any service call.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get(middleware.SessionKey).(*domain.Session)
	if session == nil || session.State != domain.StateAuthenticated {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated session")
	}
	return session, nil
}

// outcome classifies err for the result label of the domain counters.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrAuth),
		errors.Is(err, domain.ErrAmount),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicate):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
