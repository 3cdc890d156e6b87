package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recordkeep/records-system/internal/api/middleware"
	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

type stubAuthService struct {
	authenticateAccountFn func(ctx context.Context, number int64, pin string) (*ports.IssuedSession, error)
	authenticateUserFn    func(ctx context.Context, username, password string) (*ports.IssuedSession, error)
	registerFn            func(ctx context.Context, username, password string) (*domain.User, error)
	logoutFn              func(ctx context.Context, session *domain.Session) error
}

func (s *stubAuthService) AuthenticateAccount(ctx context.Context, number int64, pin string) (*ports.IssuedSession, error) {
	return s.authenticateAccountFn(ctx, number, pin)
}

func (s *stubAuthService) AuthenticateUser(ctx context.Context, username, password string) (*ports.IssuedSession, error) {
	return s.authenticateUserFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	return nil, domain.ErrSessionInvalid
}

func (s *stubAuthService) Logout(ctx context.Context, session *domain.Session) error {
	return s.logoutFn(ctx, session)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, s *domain.Session) {
	c.Set(middleware.SessionKey, s)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "1", Username: username, PasswordHash: "hash"}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/inventory/register", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/inventory/register", `{"username":"bob","password":"pw"}`)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/inventory/register", "not-json")

	_ = NewAuthHandler(stub).Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MissingPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/inventory/register", `{"username":"alice"}`)

	err := NewAuthHandler(stub).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_LedgerLogin_Success(t *testing.T) {
	expires := time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC)
	stub := &stubAuthService{
		authenticateAccountFn: func(ctx context.Context, number int64, pin string) (*ports.IssuedSession, error) {
			if number != 1001 || pin != "1234" {
				t.Fatalf("unexpected args: %d %s", number, pin)
			}
			return &ports.IssuedSession{
				Session: &domain.Session{ID: "s1", Tool: domain.ToolLedger, ExpiresAt: expires},
				Token:   "token123",
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/ledger/login", `{"account_number":1001,"pin":"1234"}`)

	if err := NewAuthHandler(stub).LedgerLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["tool"] != "ledger" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_LedgerLogin_WrongPIN(t *testing.T) {
	stub := &stubAuthService{
		authenticateAccountFn: func(ctx context.Context, number int64, pin string) (*ports.IssuedSession, error) {
			return nil, domain.ErrSecretMismatch
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/ledger/login", `{"account_number":1001,"pin":"9999"}`)

	err := NewAuthHandler(stub).LedgerLogin(c)
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestAuthHandler_InventoryLogin_Success(t *testing.T) {
	stub := &stubAuthService{
		authenticateUserFn: func(ctx context.Context, username, password string) (*ports.IssuedSession, error) {
			return &ports.IssuedSession{
				Session: &domain.Session{ID: "s2", Tool: domain.ToolInventory},
				Token:   "inv-token",
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/inventory/login", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).InventoryLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"inv-token"`) {
		t.Fatalf("token missing from body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var loggedOut *domain.Session
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, session *domain.Session) error {
			loggedOut = session
			return nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/ledger/logout", "")
	session := &domain.Session{ID: "s1", Tool: domain.ToolLedger, State: domain.StateAuthenticated}
	withSession(c, session)

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if loggedOut != session {
		t.Fatalf("logout called with %+v", loggedOut)
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, session *domain.Session) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/ledger/logout", "")

	err := NewAuthHandler(stub).Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
