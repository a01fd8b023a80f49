package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

// Place persists a freshly built order and removes the source cart
// atomically. Orders always start Pending/Pending regardless of what the
// caller set.
func (s *Service) Place(ctx context.Context, order domain.Order, cartID uuid.UUID, cartVersion int64) (domain.Order, error) {
	if len(order.Lines) == 0 {
		return domain.Order{}, apperr.New(apperr.KindValidation, "order must have at least one line")
	}

	order.Status = domain.StatusPending
	order.PaymentStatus = domain.PaymentPending
	return s.repo.PlaceOrder(ctx, order, cartID, cartVersion)
}

func (s *Service) Orders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Order(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}
	return s.repo.GetByOwner(ctx, ownerID, orderID)
}
