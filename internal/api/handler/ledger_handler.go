package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/api/metrics"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// LedgerHandler serves the account ledger. Every route except OpenAccount
// acts on the account bound to the caller's session.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func observeLedger(op string, started time.Time, err error) {
	metrics.LedgerOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
	metrics.LedgerOperationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// OpenAccount handles POST /v1/ledger/accounts.
//
// @Summary      Open a ledger account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      openAccountRequest  true  "Account number, PIN and opening balance"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/ledger/accounts [post]
func (h *LedgerHandler) OpenAccount(c echo.Context) error {
	var req openAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	started := time.Now()
	account, err := h.service.OpenAccount(c.Request().Context(), toOpenAccountInput(req))
	observeLedger("open", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Balance handles GET /v1/ledger/balance.
//
// @Summary      Current balance of the session account
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/ledger/balance [get]
func (h *LedgerHandler) Balance(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	started := time.Now()
	balance, err := h.service.Balance(c.Request().Context(), session.AccountNumber)
	observeLedger("balance", started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{AccountNumber: session.AccountNumber, Balance: money(balance)})
}

// Deposit handles POST /v1/ledger/deposit.
//
// @Summary      Deposit into the session account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amountRequest  true  "Positive amount"
// @Success      200   {object}  balanceResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/ledger/deposit [post]
func (h *LedgerHandler) Deposit(c echo.Context) error {
	return h.move(c, "deposit", h.service.Deposit)
}

// Withdraw handles POST /v1/ledger/withdraw.
//
// @Summary      Withdraw from the session account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amountRequest  true  "Positive amount"
// @Success      200   {object}  balanceResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/ledger/withdraw [post]
func (h *LedgerHandler) Withdraw(c echo.Context) error {
	return h.move(c, "withdraw", h.service.Withdraw)
}

type moveFunc func(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error)

func (h *LedgerHandler) move(c echo.Context, op string, fn moveFunc) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	started := time.Now()
	balance, err := fn(c.Request().Context(), session.AccountNumber, req.Amount)
	observeLedger(op, started, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{AccountNumber: session.AccountNumber, Balance: money(balance)})
}

// ReleaseOnLogout wraps the ledger logout route and drops the account's
// cached state once the session has been closed.
func (h *LedgerHandler) ReleaseOnLogout(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := ctxSession(c)
		if err != nil {
			return err
		}
		if err := next(c); err != nil {
			return err
		}
		h.service.Release(session.AccountNumber)
		return nil
	}
}
