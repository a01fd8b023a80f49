package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, int, error) {
	return s.repo.List(ctx, filter.Normalized())
}

// Lookup resolves the live snapshot for one product, or one of its
// variants when variantID is set. A variant id that does not belong to the
// product is NotFound, same as a missing product.
func (s *Service) Lookup(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (domain.Snapshot, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.Price,
		StockQuantity: p.StockQuantity,
		Sellable:      p.State.Sellable(),
	}

	if variantID == nil {
		return snap, nil
	}

	v, ok := p.Variant(*variantID)
	if !ok {
		return domain.Snapshot{}, apperr.Newf(apperr.KindNotFound, "variant %s not found for product %s", *variantID, productID)
	}

	snap.VariantID = variantID
	snap.VariantLabel = v.Label
	snap.UnitPrice = p.Price.Add(v.AdditionalPrice)
	snap.StockQuantity = v.StockQuantity
	snap.Sellable = p.State.Sellable() && v.State.Sellable()
	return snap, nil
}
