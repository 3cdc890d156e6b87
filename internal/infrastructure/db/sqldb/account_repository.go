package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recordkeep/records-system/internal/core/domain"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account unless its number is taken.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := accountModel{
		Number:    a.Number,
		PINHash:   a.PINHash,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	tx := r.db.WithContext(ctx).Where("account_number = ?", a.Number).FirstOrCreate(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountExists
	}
	return nil
}

func (r *AccountRepository) FindByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m accountModel
	if err := r.db.WithContext(ctx).Where("account_number = ?", number).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("account_number = ?", number).
		Updates(map[string]any{"balance": balance, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []accountModel
	if err := r.db.WithContext(ctx).Order("account_number ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
