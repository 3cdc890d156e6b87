package service

import (
	"context"

	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// AlertService reports products at or below a stock threshold. It keeps no
// state of its own.
type AlertService struct {
	repo             ports.ProductRepository
	defaultThreshold int
}

// NewAlertService returns an AlertService. A negative defaultThreshold falls
// back to domain.DefaultLowStockThreshold.
func NewAlertService(repo ports.ProductRepository, defaultThreshold int) *AlertService {
	if defaultThreshold < 0 {
		defaultThreshold = domain.DefaultLowStockThreshold
	}
	return &AlertService{repo: repo, defaultThreshold: defaultThreshold}
}

func (s *AlertService) LowStock(ctx context.Context, threshold *int) ([]*domain.Product, error) {
	limit := s.defaultThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit < 0 {
		return nil, domain.ErrInvalidThreshold
	}

	products, err := s.repo.FindWhere(ctx, domain.ProductFilter{MaxQuantity: &limit})
	if err != nil {
		return nil, domain.Persistence("low stock query", err)
	}
	return products, nil
}
