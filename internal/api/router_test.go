package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/recordkeep/records-system/internal/api/handler"
	"github.com/recordkeep/records-system/internal/core/service"
	"github.com/recordkeep/records-system/internal/infrastructure/db/sqldb"
	"github.com/recordkeep/records-system/internal/infrastructure/security"
	"github.com/recordkeep/records-system/internal/infrastructure/session"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := sqldb.Open(context.Background(), sqldb.Config{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)

	log := zerolog.Nop()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	accounts := sqldb.NewAccountRepository(db)
	products := sqldb.NewProductRepository(db)
	sessions := session.NewMemoryStore()

	return NewRouter(Dependencies{
		Auth:      service.NewAuthService(accounts, sqldb.NewUserRepository(db), hasher, sessions, "test-secret", time.Minute, log),
		Ledger:    service.NewLedgerService(accounts, hasher, 0, log),
		Inventory: service.NewInventoryService(products, log),
		Alerts:    service.NewAlertService(products, 5),
		Checks:    map[string]handler.PingFunc{"sessions": sessions.Ping},
		Log:       log,
		Registry:  prometheus.NewRegistry(),
	})
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec.Code, resp
}

func TestRouter_LedgerSession(t *testing.T) {
	e := newTestRouter(t)

	code, _ := do(t, e, http.MethodPost, "/v1/ledger/accounts", "", `{"account_number":1001,"pin":"1234","initial_balance":"100.00"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, e, http.MethodPost, "/v1/ledger/accounts", "", `{"account_number":1001,"pin":"0000"}`)
	require.Equal(t, http.StatusConflict, code)

	code, _ = do(t, e, http.MethodPost, "/v1/ledger/login", "", `{"account_number":1001,"pin":"9999"}`)
	require.Equal(t, http.StatusUnauthorized, code)

	code, resp := do(t, e, http.MethodPost, "/v1/ledger/login", "", `{"account_number":1001,"pin":"1234"}`)
	require.Equal(t, http.StatusOK, code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)

	code, resp = do(t, e, http.MethodPost, "/v1/ledger/deposit", token, `{"amount":"50"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "150.00", resp["balance"])

	code, resp = do(t, e, http.MethodPost, "/v1/ledger/withdraw", token, `{"amount":"500"}`)
	require.Equal(t, http.StatusConflict, code)
	require.Contains(t, resp["error"], "insufficient funds")

	code, resp = do(t, e, http.MethodGet, "/v1/ledger/balance", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "150.00", resp["balance"])

	code, _ = do(t, e, http.MethodPost, "/v1/ledger/deposit", token, `{"amount":"0"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = do(t, e, http.MethodPost, "/v1/ledger/deposit", token, `{"amount":"-5"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = do(t, e, http.MethodGet, "/v1/inventory/products", token, "")
	require.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, e, http.MethodPost, "/v1/ledger/logout", token, "")
	require.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, e, http.MethodGet, "/v1/ledger/balance", token, "")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_InventorySession(t *testing.T) {
	e := newTestRouter(t)

	code, _ := do(t, e, http.MethodGet, "/v1/inventory/products", "", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, e, http.MethodPost, "/v1/inventory/register", "", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, e, http.MethodPost, "/v1/inventory/register", "", `{"username":"alice","password":"other"}`)
	require.Equal(t, http.StatusConflict, code)

	code, resp := do(t, e, http.MethodPost, "/v1/inventory/login", "", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	token, _ := resp["token"].(string)

	for _, body := range []string{
		`{"name":"A","quantity":3,"price":"1.00"}`,
		`{"name":"B","quantity":5,"price":"2.00"}`,
		`{"name":"C","quantity":10,"price":"3.00"}`,
	} {
		code, _ = do(t, e, http.MethodPost, "/v1/inventory/products", token, body)
		require.Equal(t, http.StatusCreated, code)
	}

	code, _ = do(t, e, http.MethodPost, "/v1/inventory/products", token, `{"name":"D","quantity":-1,"price":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, resp = do(t, e, http.MethodGet, "/v1/inventory/products/low-stock", token, "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 2, resp["total"])

	code, resp = do(t, e, http.MethodGet, "/v1/inventory/products/low-stock?threshold=3", token, "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, resp["total"])

	code, _ = do(t, e, http.MethodPut, "/v1/inventory/products/999", token, `{"name":"X","quantity":1,"price":"1"}`)
	require.Equal(t, http.StatusNotFound, code)

	code, resp = do(t, e, http.MethodGet, "/v1/inventory/products", token, "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 3, resp["total"])

	code, _ = do(t, e, http.MethodGet, "/v1/ledger/balance", token, "")
	require.Equal(t, http.StatusForbidden, code)
}

func TestRouter_SubCentAmountsRejected(t *testing.T) {
	e := newTestRouter(t)

	code, _ := do(t, e, http.MethodPost, "/v1/ledger/accounts", "", `{"account_number":1001,"pin":"1234","initial_balance":"100.00"}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, e, http.MethodPost, "/v1/ledger/accounts", "", `{"account_number":1002,"pin":"1234","initial_balance":"0.001"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	_, resp := do(t, e, http.MethodPost, "/v1/ledger/login", "", `{"account_number":1001,"pin":"1234"}`)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)

	code, _ = do(t, e, http.MethodPost, "/v1/ledger/deposit", token, `{"amount":"0.005"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = do(t, e, http.MethodPost, "/v1/ledger/deposit", token, `{"amount":"0.0001"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, resp = do(t, e, http.MethodPost, "/v1/ledger/withdraw", token, `{"amount":"100.00"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "0.00", resp["balance"])

	// the view is dropped at logout and reloaded from the store on the next login
	code, _ = do(t, e, http.MethodPost, "/v1/ledger/logout", token, "")
	require.Equal(t, http.StatusNoContent, code)
	_, resp = do(t, e, http.MethodPost, "/v1/ledger/login", "", `{"account_number":1001,"pin":"1234"}`)
	token, _ = resp["token"].(string)
	code, resp = do(t, e, http.MethodGet, "/v1/ledger/balance", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "0.00", resp["balance"])
}

func TestRouter_UsernameWhitespace(t *testing.T) {
	e := newTestRouter(t)

	code, _ := do(t, e, http.MethodPost, "/v1/inventory/register", "", `{"username":"bob ","password":"secret"}`)
	require.Equal(t, http.StatusCreated, code)

	for _, name := range []string{"bob", "bob ", " bob"} {
		code, _ = do(t, e, http.MethodPost, "/v1/inventory/login", "", `{"username":"`+name+`","password":"secret"}`)
		require.Equal(t, http.StatusOK, code, "login as %q", name)
	}
}

func TestRouter_Probes(t *testing.T) {
	e := newTestRouter(t)

	code, _ := do(t, e, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, code)

	code, resp := do(t, e, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", resp["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
