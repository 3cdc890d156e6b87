package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

const defaultSessionTTL = 30 * time.Minute

// AuthService verifies credentials for both tools, registers inventory users
// and manages the session lifecycle.
type AuthService struct {
	accounts   ports.AccountRepository
	users      ports.UserRepository
	hasher     ports.SecretHasher
	sessions   ports.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	users ports.UserRepository,
	hasher ports.SecretHasher,
	sessions ports.SessionStore,
	jwtSecret string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		accounts:   accounts,
		users:      users,
		hasher:     hasher,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.log.Error().Err(err).Str("username", username).Msg("failed to store user")
		}
		return nil, domain.Persistence("register user", err)
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return created, nil
}

// AuthenticateAccount opens a ledger session for the account number.
func (s *AuthService) AuthenticateAccount(ctx context.Context, number int64, pin string) (*ports.IssuedSession, error) {
	session := s.begin(domain.ToolLedger)

	account, err := s.accounts.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, s.reject(session, strconv.FormatInt(number, 10), domain.ErrIdentityNotFound)
		}
		return nil, s.reject(session, strconv.FormatInt(number, 10), domain.Persistence("find account", err))
	}
	if !s.hasher.Verify(pin, account.PINHash) {
		return nil, s.reject(session, strconv.FormatInt(number, 10), domain.ErrSecretMismatch)
	}

	session.AccountNumber = account.Number
	return s.establish(ctx, session, strconv.FormatInt(account.Number, 10))
}

// AuthenticateUser opens an inventory session for the username. The name is
// trimmed the same way Register stores it.
func (s *AuthService) AuthenticateUser(ctx context.Context, username, password string) (*ports.IssuedSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	session := s.begin(domain.ToolInventory)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.reject(session, username, domain.ErrIdentityNotFound)
		}
		return nil, s.reject(session, username, domain.Persistence("find user", err))
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.reject(session, username, domain.ErrSecretMismatch)
	}

	session.Username = user.Username
	return s.establish(ctx, session, user.Username)
}

// Resolve maps a bearer token back to its live session.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrSessionInvalid
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, domain.ErrSessionInvalid
	}

	session, err := s.sessions.Find(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			return nil, err
		}
		return nil, domain.Persistence("find session", err)
	}
	if tool, _ := claims["tool"].(string); domain.Tool(tool) != session.Tool {
		return nil, domain.ErrSessionInvalid
	}
	if !session.Active(s.now()) {
		return nil, domain.ErrSessionInvalid
	}
	return session, nil
}

// Logout ends the session. The session can no longer be resolved afterwards.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if err := session.Transition(domain.StateLoggedOut); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return domain.Persistence("delete session", err)
	}
	s.log.Info().Str("session_id", session.ID).Str("tool", string(session.Tool)).Msg("session closed")
	return nil
}

func (s *AuthService) begin(tool domain.Tool) *domain.Session {
	session := &domain.Session{
		ID:    uuid.NewString(),
		Tool:  tool,
		State: domain.StateLoggedOut,
	}
	_ = session.Transition(domain.StateAuthenticating)
	return session
}

func (s *AuthService) reject(session *domain.Session, identity string, err error) error {
	_ = session.Transition(domain.StateLoggedOut)
	if errors.Is(err, domain.ErrPersistence) {
		s.log.Error().Err(err).Str("tool", string(session.Tool)).Str("identity", identity).Msg("authentication lookup failed")
	} else {
		s.log.Info().Err(err).Str("tool", string(session.Tool)).Str("identity", identity).Msg("authentication rejected")
	}
	return err
}

func (s *AuthService) establish(ctx context.Context, session *domain.Session, subject string) (*ports.IssuedSession, error) {
	now := s.now()
	session.IssuedAt = now
	session.ExpiresAt = now.Add(s.sessionTTL)
	if err := session.Transition(domain.StateAuthenticated); err != nil {
		return nil, err
	}

	token, err := s.generateToken(session, subject)
	if err != nil {
		_ = session.Transition(domain.StateLoggedOut)
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := s.sessions.Save(ctx, session, s.sessionTTL); err != nil {
		_ = session.Transition(domain.StateLoggedOut)
		return nil, domain.Persistence("save session", err)
	}

	s.log.Info().Str("session_id", session.ID).Str("tool", string(session.Tool)).Str("identity", subject).Msg("session opened")
	return &ports.IssuedSession{Session: session, Token: token}, nil
}

func (s *AuthService) generateToken(session *domain.Session, subject string) (string, error) {
	claims := jwt.MapClaims{
		"sid":  session.ID,
		"tool": string(session.Tool),
		"sub":  subject,
		"iat":  session.IssuedAt.Unix(),
		"exp":  session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
