package ports

import (
	"context"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// ProductRepository defines persistence operations for stock records.
type ProductRepository interface {
	// Create assigns a fresh ID to p and inserts it.
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Update overwrites name, quantity and price of an existing product.
	// A missing ID yields domain.ErrProductNotFound and creates nothing.
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	// List returns every product in ascending ID order.
	List(ctx context.Context) ([]*domain.Product, error)
	// FindWhere returns the products matching filter in ascending ID order.
	FindWhere(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
}
