// Package inventory gates cart mutations and checkout on live stock. It is
// deliberately thin: the catalog owns the data, this package owns the
// decision.
package inventory

import (
	"context"

	"github.com/google/uuid"

	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type CatalogLookup interface {
	Lookup(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (catalogdomain.Snapshot, error)
}

type Validator struct {
	catalog CatalogLookup
}

func NewValidator(catalog CatalogLookup) *Validator {
	return &Validator{catalog: catalog}
}

// Validate checks that the product (or variant) exists, is sellable and has
// at least quantity units in stock. The snapshot is returned so callers can
// reuse the price and display text without a second lookup.
//
// A transient catalog failure propagates unchanged; it must never be
// reported as an availability decision.
func (v *Validator) Validate(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (catalogdomain.Snapshot, error) {
	snap, err := v.catalog.Lookup(ctx, productID, variantID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return catalogdomain.Snapshot{}, apperr.Wrap(apperr.KindProductUnavailable, "product is not available", err)
		}
		return catalogdomain.Snapshot{}, err
	}

	if !snap.Sellable {
		return catalogdomain.Snapshot{}, apperr.Newf(apperr.KindProductUnavailable, "product %s is not available", productID)
	}

	if snap.StockQuantity < quantity {
		return catalogdomain.Snapshot{}, apperr.Newf(apperr.KindOutOfStock,
			"insufficient stock for product %s: requested %d, available %d", productID, quantity, snap.StockQuantity)
	}

	return snap, nil
}
