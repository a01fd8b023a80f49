package app

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/internal/checkout/domain"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

// ShippingInfo is the caller-supplied destination for a checkout, with an
// optional distinct billing address.
type ShippingInfo struct {
	Address        orderdomain.Address
	BillingAddress *orderdomain.Address
	CustomerNotes  string
}

type Service struct {
	carts   CartReader
	stock   StockValidator
	orders  OrderPlacer
	caches  CacheInvalidator
	pricing domain.PricingConfig

	maxConcurrent int
	now           func() time.Time
}

func NewService(carts CartReader, stock StockValidator, orders OrderPlacer, caches CacheInvalidator, pricing domain.PricingConfig, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		carts:         carts,
		stock:         stock,
		orders:        orders,
		caches:        caches,
		pricing:       pricing,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Checkout converts the owner's cart into an order: it revalidates every
// line against live stock, prices the cart at the unit prices stored when
// the lines were added, snapshots the lines into an immutable order and
// commits order-creation plus cart-deletion atomically. Any validation
// failure aborts the whole operation; nothing is persisted and the cart
// stays intact. There are no retries here; the caller adjusts and retries
// explicitly.
func (s *Service) Checkout(ctx context.Context, ownerID string, info ShippingInfo) (orderdomain.Order, error) {
	if ownerID == "" {
		return orderdomain.Order{}, apperr.New(apperr.KindNotAuthenticated, "no authenticated user")
	}
	if err := validateShipping(info.Address); err != nil {
		return orderdomain.Order{}, err
	}

	cart, err := s.carts.CartForCheckout(ctx, ownerID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return orderdomain.Order{}, apperr.New(apperr.KindCartEmpty, "cart is empty, nothing to check out")
	}
	if err != nil {
		return orderdomain.Order{}, err
	}
	if cart.IsEmpty() {
		return orderdomain.Order{}, apperr.New(apperr.KindCartEmpty, "cart is empty, nothing to check out")
	}

	// Stock may have changed since the lines were added, so every line is
	// revalidated against the current snapshot. The first failure cancels
	// the rest; there are no partial orders.
	snaps := make([]catalogdomain.Snapshot, len(cart.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range cart.Lines {
		idx := idx
		g.Go(func() error {
			line := cart.Lines[idx]
			snap, err := s.stock.Validate(gctx, line.ProductID, line.VariantID, line.Quantity)
			if err != nil {
				return err
			}
			snaps[idx] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return orderdomain.Order{}, err
	}

	// Price-as-added: the cart's stored unit prices, not the snapshots'
	// current ones, feed the calculator and the order lines.
	items := make([]domain.Item, len(cart.Lines))
	for i, line := range cart.Lines {
		items[i] = domain.Item{UnitPrice: line.UnitPrice, Quantity: line.Quantity}
	}
	totals := domain.Price(items, s.pricing)

	order := s.buildOrder(ownerID, cart.Lines, snaps, totals, info)

	placed, err := s.orders.Place(ctx, order, cart.ID, cart.Version)
	if err != nil {
		return orderdomain.Order{}, err
	}

	s.caches.InvalidateCache(ownerID)
	return placed, nil
}

func (s *Service) buildOrder(ownerID string, lines []cartdomain.Line, snaps []catalogdomain.Snapshot, totals domain.Totals, info ShippingInfo) orderdomain.Order {
	now := s.now().UTC()

	order := orderdomain.Order{
		OrderNumber:     orderdomain.NewOrderNumber(now),
		OwnerID:         ownerID,
		PlacedAt:        now,
		Status:          orderdomain.StatusPending,
		PaymentStatus:   orderdomain.PaymentPending,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ShippingAddress: info.Address,
		BillingAddress:  info.BillingAddress,
		CustomerNotes:   info.CustomerNotes,
	}

	for i, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Lines = append(order.Lines, orderdomain.Line{
			ProductID:    line.ProductID,
			VariantID:    line.VariantID,
			ProductName:  snaps[i].Name,
			VariantLabel: snaps[i].VariantLabel,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineDiscount: decimal.Zero, // kept per line for future promo support
			LineTotal:    lineTotal,
		})
	}

	return order
}

func validateShipping(a orderdomain.Address) error {
	missing := make([]string, 0, 6)
	for _, f := range []struct{ name, value string }{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"line1", a.Line1},
		{"city", a.City},
		{"zip_code", a.ZipCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation, "shipping address is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
