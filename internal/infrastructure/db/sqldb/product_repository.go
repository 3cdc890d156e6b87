package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/recordkeep/records-system/internal/core/domain"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := productModel{
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = m.ID
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m productModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return m.toDomain(), nil
}

// Update writes every field, zero quantity included, and never inserts.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":       p.Name,
			"quantity":   p.Quantity,
			"price":      p.Price,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.FindWhere(ctx, domain.ProductFilter{})
}

func (r *ProductRepository) FindWhere(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&productModel{})
	if filter.MaxQuantity != nil {
		q = q.Where("quantity <= ?", *filter.MaxQuantity)
	}

	var rows []productModel
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	out := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
