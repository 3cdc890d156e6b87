package ports

import (
	"context"
	"time"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// SecretHasher hashes PINs and passwords. Verify(s, Hash(s)) must hold.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// SessionStore keeps the set of live sessions so a logout can revoke one.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
