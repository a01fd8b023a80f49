package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type stubCatalog struct {
	snap catalogdomain.Snapshot
	err  error
}

func (s stubCatalog) Lookup(context.Context, uuid.UUID, *uuid.UUID) (catalogdomain.Snapshot, error) {
	return s.snap, s.err
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator(stubCatalog{snap: catalogdomain.Snapshot{
		Name:          "Canvas Sneaker",
		UnitPrice:     decimal.RequireFromString("49.90"),
		StockQuantity: 10,
		Sellable:      true,
	}})

	snap, err := v.Validate(context.Background(), uuid.New(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, "Canvas Sneaker", snap.Name)
}

func TestValidate_MissingProductIsUnavailable(t *testing.T) {
	v := NewValidator(stubCatalog{err: apperr.New(apperr.KindNotFound, "product not found")})

	_, err := v.Validate(context.Background(), uuid.New(), nil, 1)
	assert.Equal(t, apperr.KindProductUnavailable, apperr.KindOf(err))
}

func TestValidate_InactiveProductIsUnavailable(t *testing.T) {
	v := NewValidator(stubCatalog{snap: catalogdomain.Snapshot{StockQuantity: 100, Sellable: false}})

	_, err := v.Validate(context.Background(), uuid.New(), nil, 1)
	assert.Equal(t, apperr.KindProductUnavailable, apperr.KindOf(err))
}

func TestValidate_InsufficientStock(t *testing.T) {
	v := NewValidator(stubCatalog{snap: catalogdomain.Snapshot{StockQuantity: 2, Sellable: true}})

	_, err := v.Validate(context.Background(), uuid.New(), nil, 3)
	assert.Equal(t, apperr.KindOutOfStock, apperr.KindOf(err))
}

func TestValidate_TransientErrorIsNotMasked(t *testing.T) {
	boom := errors.New("catalog unreachable")
	v := NewValidator(stubCatalog{err: boom})

	_, err := v.Validate(context.Background(), uuid.New(), nil, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotEqual(t, apperr.KindOutOfStock, apperr.KindOf(err))
	assert.NotEqual(t, apperr.KindProductUnavailable, apperr.KindOf(err))
}
