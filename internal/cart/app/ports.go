package app

import (
	"context"

	"github.com/google/uuid"

	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/internal/cart/domain"
)

type CartRepo interface {
	// GetByOwner returns the owner's cart with all lines, or NotFound.
	GetByOwner(ctx context.Context, ownerID string) (domain.Cart, error)
	// Save persists the aggregate: it inserts new carts and replaces the
	// line set of existing ones. A version clash with a concurrent writer
	// surfaces as ConcurrentModification; on success the cart's Version is
	// advanced to the stored one.
	Save(ctx context.Context, cart *domain.Cart) error
}

type StockValidator interface {
	Validate(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (catalogdomain.Snapshot, error)
}

type CartCache interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Set(ctx context.Context, ownerID string, cart *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}
