package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the inclusive cutoff used when no threshold is given.
const DefaultLowStockThreshold = 5

// Product is a stock record. ID is assigned by the store and grows
// monotonically, so ascending ID order is insertion order.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate checks the fields a caller may set.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !IsWholeCents(p.Price) {
		return ErrPricePrecision
	}
	return nil
}

// IsLowStock reports whether the product is at or below threshold.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}

// ProductFilter narrows a product query. Nil fields are ignored.
type ProductFilter struct {
	MaxQuantity *int
}

// Matches applies the filter to a single product.
func (f ProductFilter) Matches(p *Product) bool {
	if f.MaxQuantity != nil && p.Quantity > *f.MaxQuantity {
		return false
	}
	return true
}
