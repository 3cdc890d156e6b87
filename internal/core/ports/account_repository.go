package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// AccountRepository defines persistence operations for ledger accounts.
type AccountRepository interface {
	// Create inserts a new account; a taken number yields domain.ErrAccountExists.
	Create(ctx context.Context, account *domain.Account) error
	FindByNumber(ctx context.Context, number int64) (*domain.Account, error)
	// UpdateBalance durably stores the new balance for an existing account.
	UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) error
	List(ctx context.Context) ([]*domain.Account, error)
}
