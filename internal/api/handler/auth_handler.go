package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/api/metrics"
	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// AuthHandler opens and closes sessions for both tools and registers
// inventory users.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new inventory user.
//
// @Summary      Register an inventory user
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/inventory/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// LedgerLogin authenticates an account number and PIN.
//
// @Summary      Open a ledger session
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      ledgerLoginRequest  true  "Account number and PIN"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/ledger/login [post]
func (h *AuthHandler) LedgerLogin(c echo.Context) error {
	var req ledgerLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	issued, err := h.authService.AuthenticateAccount(c.Request().Context(), req.AccountNumber, req.PIN)
	metrics.AuthAttemptsTotal.WithLabelValues(string(domain.ToolLedger), outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(issued))
}

// InventoryLogin authenticates a username and password.
//
// @Summary      Open an inventory session
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/inventory/login [post]
func (h *AuthHandler) InventoryLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	issued, err := h.authService.AuthenticateUser(c.Request().Context(), req.Username, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues(string(domain.ToolInventory), outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(issued))
}

// Logout ends the caller's session. The token stops working immediately.
//
// @Summary      Close the current session
// @Tags         ledger, inventory
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/ledger/logout [post]
// @Router       /v1/inventory/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), session); err != nil {
		return err
	}
	metrics.LogoutsTotal.WithLabelValues(string(session.Tool)).Inc()
	return c.NoContent(http.StatusNoContent)
}
