package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/vgclassic/storefront/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Product, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, int, error)
}
