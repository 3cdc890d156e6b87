package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// ProductInput carries the caller-settable fields of a product.
type ProductInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// InventoryService defines stock record operations. It is not scoped per
// user: any authenticated inventory session may act on any product.
type InventoryService interface {
	Add(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

// AlertService answers low-stock queries against the current inventory.
type AlertService interface {
	// LowStock returns products with quantity <= threshold. A nil threshold
	// uses the configured default.
	LowStock(ctx context.Context, threshold *int) ([]*domain.Product, error)
}
