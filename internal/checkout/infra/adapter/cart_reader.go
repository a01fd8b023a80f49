package adapter

import (
	"context"

	cartapp "github.com/vgclassic/storefront/internal/cart/app"
	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
)

// CartServiceReader bridges the cart service into the checkout ports,
// bypassing the read cache so checkout sees committed state.
type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) CartForCheckout(ctx context.Context, ownerID string) (cartdomain.Cart, error) {
	return r.svc.CartForCheckout(ctx, ownerID)
}

func (r *CartServiceReader) InvalidateCache(ownerID string) {
	r.svc.InvalidateCache(ownerID)
}
