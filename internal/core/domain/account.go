package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger record. Number and PINHash never change after the
// account is opened; Balance is only changed by deposit and withdraw.
type Account struct {
	Number    int64           `json:"account_number"`
	PINHash   string          `json:"-"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanWithdraw reports whether amount can be taken without the balance going
// negative. Draining the account to exactly zero is allowed.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}

// MoneyPlaces is the number of decimal places every stored amount carries.
const MoneyPlaces = 2

// IsWholeCents reports whether d is representable in MoneyPlaces decimals.
// Trailing zeros do not count, so 1.500 is whole cents and 0.005 is not.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// ValidateAmount rejects zero, negative and sub-cent amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !IsWholeCents(amount) {
		return ErrAmountPrecision
	}
	return nil
}

// ValidateOpeningBalance accepts zero but otherwise follows ValidateAmount.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrInvalidAmount
	}
	if !IsWholeCents(balance) {
		return ErrAmountPrecision
	}
	return nil
}
