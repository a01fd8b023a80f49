package adapter

import (
	"context"

	"github.com/google/uuid"

	catalogapp "github.com/vgclassic/storefront/internal/catalog/app"
	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
)

// CatalogServiceReader lets the inventory validator consume the catalog
// service through its own port.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) Lookup(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (catalogdomain.Snapshot, error) {
	return r.svc.Lookup(ctx, productID, variantID)
}
