package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// OpenAccountInput carries the data needed to open a ledger account.
type OpenAccountInput struct {
	Number         int64
	PIN            string
	InitialBalance decimal.Decimal
}

// LedgerService defines the account ledger operations. Every call except
// OpenAccount is scoped to the account bound to the caller's session.
type LedgerService interface {
	OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error)
	Balance(ctx context.Context, number int64) (decimal.Decimal, error)
	Deposit(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error)
	// Release forgets any in-memory state held for the account.
	Release(number int64)
}
