package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/vgclassic/storefront/internal/order/domain"
)

type OrderRepo interface {
	// PlaceOrder inserts the order with its lines and deletes cart cartID
	// (including its lines) in the same transaction. The delete is guarded
	// by cartVersion; zero affected rows means a concurrent writer won and
	// the whole transaction rolls back.
	PlaceOrder(ctx context.Context, order domain.Order, cartID uuid.UUID, cartVersion int64) (domain.Order, error)
	// ListByOwner returns the owner's orders newest first, lines included.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	// GetByOwner returns one order scoped to its owner, or NotFound.
	GetByOwner(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)
}
