package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type stubRepo struct {
	placed *domain.Order
	calls  int
}

func (s *stubRepo) PlaceOrder(_ context.Context, order domain.Order, _ uuid.UUID, _ int64) (domain.Order, error) {
	s.placed = &order
	return order, nil
}

func (s *stubRepo) ListByOwner(context.Context, string) ([]domain.Order, error) {
	s.calls++
	return nil, nil
}

func (s *stubRepo) GetByOwner(context.Context, string, uuid.UUID) (domain.Order, error) {
	s.calls++
	return domain.Order{}, nil
}

func TestPlace_ForcesPendingStatuses(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	order := domain.Order{
		Status:        domain.StatusShipped,
		PaymentStatus: domain.PaymentPaid,
		Lines:         []domain.Line{{Quantity: 1}},
	}

	placed, err := svc.Place(context.Background(), order, uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, placed.Status)
	assert.Equal(t, domain.PaymentPending, placed.PaymentStatus)
}

func TestPlace_RejectsEmptyOrder(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), domain.Order{}, uuid.New(), 1)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Nil(t, repo.placed)
}

func TestOrders_RequireOwner(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.Orders(context.Background(), "")
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	_, err = svc.Order(context.Background(), "", uuid.New())
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	assert.Equal(t, 0, repo.calls)
}
