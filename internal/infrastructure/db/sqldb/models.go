package sqldb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
)

type accountModel struct {
	Number    int64           `gorm:"column:account_number;primaryKey;autoIncrement:false"`
	PINHash   string          `gorm:"column:pin_hash;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (accountModel) TableName() string { return "accounts" }

func (m *accountModel) toDomain() *domain.Account {
	return &domain.Account{
		Number:    m.Number,
		PINHash:   m.PINHash,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type userModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type productModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null;index"`
	Price     decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (productModel) TableName() string { return "products" }

func (m *productModel) toDomain() *domain.Product {
	return &domain.Product{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
