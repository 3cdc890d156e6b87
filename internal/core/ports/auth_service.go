package ports

import (
	"context"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// IssuedSession is returned by a successful authentication.
type IssuedSession struct {
	Session *domain.Session
	Token   string
}

type AuthService interface {
	AuthenticateAccount(ctx context.Context, number int64, pin string) (*IssuedSession, error)
	AuthenticateUser(ctx context.Context, username, password string) (*IssuedSession, error)
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, session *domain.Session) error
}
