package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/vgclassic/storefront/internal/cart/domain"
	"github.com/vgclassic/storefront/internal/cart/infra/cache"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type Service struct {
	repo  CartRepo
	stock StockValidator
	cache CartCache
	sfg   singleflight.Group

	now func() time.Time
}

func NewService(repo CartRepo, stock StockValidator, c CartCache) *Service {
	return &Service{
		repo:  repo,
		stock: stock,
		cache: c,
		now:   time.Now,
	}
}

// GetCart returns the owner's cart, an empty cart value when none exists
// yet. Reads go through the cache; concurrent misses for the same owner are
// collapsed with singleflight.
func (s *Service) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}

	v, err, _ := s.sfg.Do(ownerID, func() (any, error) {
		cached, err := s.cache.Get(ctx, ownerID)
		if err == nil {
			return *cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.WarnContext(ctx, "cart cache get failed", slog.Any("err", err))
		}

		cart, err := s.repo.GetByOwner(ctx, ownerID)
		if apperr.IsKind(err, apperr.KindNotFound) {
			return domain.Cart{OwnerID: ownerID}, nil
		}
		if err != nil {
			return domain.Cart{}, err
		}

		if err := s.cache.Set(ctx, ownerID, &cart); err != nil {
			slog.WarnContext(ctx, "cart cache set failed", slog.Any("err", err))
		}
		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return v.(domain.Cart), nil
}

// AddToCart validates the requested quantity against live stock, then adds
// the line to the owner's cart, creating the cart lazily on first add. The
// line's unit price is captured from the catalog snapshot now; it will not
// be refreshed by later catalog edits.
func (s *Service) AddToCart(ctx context.Context, ownerID string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return domain.Cart{}, apperr.Newf(apperr.KindValidation, "quantity must be between 1 and %d, got %d", domain.MaxLineQuantity, quantity)
	}

	snap, err := s.stock.Validate(ctx, productID, variantID, quantity)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.repo.GetByOwner(ctx, ownerID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		cart = domain.New(ownerID, s.now())
	} else if err != nil {
		return domain.Cart{}, err
	}

	if _, err := cart.AddLine(productID, variantID, quantity, snap.UnitPrice, s.now()); err != nil {
		return domain.Cart{}, err
	}

	if err := s.repo.Save(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}

	s.invalidateCache(ownerID)
	return cart, nil
}

// RemoveFromCart removes one line by id. A missing cart or line is NotFound
// and the cart is left unchanged.
func (s *Service) RemoveFromCart(ctx context.Context, ownerID string, lineID uuid.UUID) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}

	cart, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}

	if err := cart.RemoveLine(lineID, s.now()); err != nil {
		return domain.Cart{}, err
	}

	if err := s.repo.Save(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}

	s.invalidateCache(ownerID)
	return cart, nil
}

// CartForCheckout loads the cart straight from the repository, bypassing
// the cache: checkout must see the latest committed version or it cannot
// detect lost updates.
func (s *Service) CartForCheckout(ctx context.Context, ownerID string) (domain.Cart, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// InvalidateCache drops the cached cart for ownerID. Checkout calls this
// after the cart has been deleted transactionally.
func (s *Service) InvalidateCache(ownerID string) {
	s.invalidateCache(ownerID)
}

func (s *Service) invalidateCache(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		slog.Warn("cart cache invalidate failed", slog.Any("err", err))
	}
}
