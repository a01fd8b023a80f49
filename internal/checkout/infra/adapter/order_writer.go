package adapter

import (
	"context"

	"github.com/google/uuid"

	orderapp "github.com/vgclassic/storefront/internal/order/app"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
)

// OrderServiceWriter hands the built order to the order service, which owns
// the transactional placement.
type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) Place(ctx context.Context, order orderdomain.Order, cartID uuid.UUID, cartVersion int64) (orderdomain.Order, error) {
	return w.svc.Place(ctx, order, cartID, cartVersion)
}
