package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// DefaultViewCacheSize bounds the number of account views kept in memory.
const DefaultViewCacheSize = 4096

// LedgerService owns the in-memory view of ledger accounts. A view is loaded
// from the store on first use and from then on every change to it is written
// through before the call returns. Views are held in an LRU, so an evicted
// view is simply reloaded from the store on its next use.
type LedgerService struct {
	repo   ports.AccountRepository
	hasher ports.SecretHasher
	locks  *stripedLock
	log    zerolog.Logger
	views  *lru.Cache[int64, *domain.Account]
}

// NewLedgerService builds the ledger with a view cache of cacheSize entries;
// cacheSize <= 0 selects DefaultViewCacheSize.
func NewLedgerService(repo ports.AccountRepository, hasher ports.SecretHasher, cacheSize int, log zerolog.Logger) *LedgerService {
	if cacheSize <= 0 {
		cacheSize = DefaultViewCacheSize
	}
	// lru.New only fails for a non-positive size.
	views, _ := lru.New[int64, *domain.Account](cacheSize)
	return &LedgerService{
		repo:   repo,
		hasher: hasher,
		locks:  newStripedLock(defaultStripes),
		log:    log,
		views:  views,
	}
}

// OpenAccount creates a new account with a hashed PIN.
func (s *LedgerService) OpenAccount(ctx context.Context, in ports.OpenAccountInput) (*domain.Account, error) {
	if in.Number <= 0 || in.PIN == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := domain.ValidateOpeningBalance(in.InitialBalance); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.PIN)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	unlock := s.locks.Lock(in.Number)
	defer unlock()

	now := time.Now().UTC()
	account := &domain.Account{
		Number:    in.Number,
		PINHash:   hash,
		Balance:   in.InitialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if !errors.Is(err, domain.ErrAccountExists) {
			s.log.Error().Err(err).Int64("account", in.Number).Msg("failed to open account")
		}
		return nil, domain.Persistence("open account", err)
	}

	view := *account
	s.views.Add(account.Number, &view)

	s.log.Info().Int64("account", account.Number).Str("balance", account.Balance.StringFixed(2)).Msg("account opened")
	return account, nil
}

// Balance returns the current balance of the account.
func (s *LedgerService) Balance(ctx context.Context, number int64) (decimal.Decimal, error) {
	unlock := s.locks.Lock(number)
	defer unlock()

	account, err := s.view(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Deposit adds amount and returns the new balance.
func (s *LedgerService) Deposit(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return s.apply(ctx, "deposit", number, func(a *domain.Account) error {
		a.Balance = a.Balance.Add(amount)
		return nil
	})
}

// Withdraw subtracts amount and returns the new balance. Withdrawing the
// whole balance is allowed.
func (s *LedgerService) Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return s.apply(ctx, "withdraw", number, func(a *domain.Account) error {
		if !a.CanWithdraw(amount) {
			return domain.ErrInsufficientFunds
		}
		a.Balance = a.Balance.Sub(amount)
		return nil
	})
}

// apply runs mutate against the account view and writes the result through.
// mutate must leave the account untouched when it returns an error.
func (s *LedgerService) apply(ctx context.Context, op string, number int64, mutate func(*domain.Account) error) (decimal.Decimal, error) {
	unlock := s.locks.Lock(number)
	defer unlock()

	account, err := s.view(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}

	prevBalance, prevUpdated := account.Balance, account.UpdatedAt
	if err := mutate(account); err != nil {
		return decimal.Zero, err
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateBalance(ctx, number, account.Balance); err != nil {
		account.Balance, account.UpdatedAt = prevBalance, prevUpdated
		s.log.Error().Err(err).Int64("account", number).Str("op", op).Msg("balance write failed, view rolled back")
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.forget(number)
			return decimal.Zero, fmt.Errorf("%s: %w", op, domain.ErrSessionAccountMissing)
		}
		return decimal.Zero, domain.Persistence(op, err)
	}

	s.log.Info().Int64("account", number).Str("op", op).Str("balance", account.Balance.StringFixed(2)).Msg("balance updated")
	return account.Balance, nil
}

// view returns the cached account, loading it on first use. The caller must
// hold the account's stripe lock.
func (s *LedgerService) view(ctx context.Context, number int64) (*domain.Account, error) {
	if account, ok := s.views.Get(number); ok {
		return account, nil
	}

	account, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("account %d: %w", number, domain.ErrSessionAccountMissing)
		}
		return nil, domain.Persistence("load account", err)
	}

	s.views.Add(number, account)
	return account, nil
}

// Release drops the cached view of an account, typically when its session
// ends. The next call reloads it from the store.
func (s *LedgerService) Release(number int64) {
	unlock := s.locks.Lock(number)
	defer unlock()
	s.views.Remove(number)
}

func (s *LedgerService) forget(number int64) {
	s.views.Remove(number)
}
