package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

type InventoryService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
	mu   sync.Mutex // serializes mutations
}

func NewInventoryService(repo ports.ProductRepository, log zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, log: log}
}

// Add validates and stores a new product. The store assigns its ID.
func (s *InventoryService) Add(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		Name:      strings.TrimSpace(in.Name),
		Quantity:  in.Quantity,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error().Err(err).Str("name", p.Name).Msg("failed to add product")
		return nil, domain.Persistence("add product", err)
	}

	s.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Int("quantity", p.Quantity).Msg("product added")
	return p, nil
}

// Update overwrites an existing product. Unknown IDs are never created.
func (s *InventoryService) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	candidate := &domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("find product", err)
	}

	candidate.CreatedAt = existing.CreatedAt
	candidate.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, candidate); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.log.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		}
		return nil, domain.Persistence("update product", err)
	}

	s.log.Info().Int64("product_id", id).Int("quantity", candidate.Quantity).Msg("product updated")
	return candidate, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.log.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		}
		return domain.Persistence("delete product", err)
	}

	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get product", err)
	}
	return p, nil
}

// List returns all products in insertion order.
func (s *InventoryService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Persistence("list products", err)
	}
	return products, nil
}
