package app

import (
	"context"

	"github.com/google/uuid"

	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
)

type CartReader interface {
	// CartForCheckout returns the owner's current committed cart, NotFound
	// when none exists.
	CartForCheckout(ctx context.Context, ownerID string) (cartdomain.Cart, error)
}

type StockValidator interface {
	Validate(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (catalogdomain.Snapshot, error)
}

type OrderPlacer interface {
	// Place persists the order and deletes cart cartID in one transaction,
	// guarded by cartVersion. A version clash is ConcurrentModification; a
	// commit that fails for infrastructure reasons is PersistenceFailure.
	Place(ctx context.Context, order orderdomain.Order, cartID uuid.UUID, cartVersion int64) (orderdomain.Order, error)
}

type CacheInvalidator interface {
	InvalidateCache(ownerID string)
}
