package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vgclassic/storefront/pkg/apperr"
)

// MaxLineQuantity caps a single line, both on the initial add and after
// merging repeated adds of the same product/variant pair.
const MaxLineQuantity = 100

type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	// UnitPrice is captured from the catalog when the line is added and is
	// not refreshed on later reads. Checkout re-validates stock but keeps
	// this price (price-as-added).
	UnitPrice decimal.Decimal
}

// Cart is the per-owner staging area for prospective purchase lines. A
// (ProductID, VariantID) pair appears at most once among its lines.
type Cart struct {
	ID           uuid.UUID
	OwnerID      string
	Lines        []Line
	Version      int64
	LastActivity time.Time
}

func New(ownerID string, now time.Time) Cart {
	return Cart{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		LastActivity: now,
	}
}

// AddLine merges quantity into an existing line for the same product and
// variant, refreshing its unit price to the supplied one, or appends a new
// line. Quantity must be in [1, MaxLineQuantity] and the merged quantity
// may not exceed MaxLineQuantity either; a violating add leaves the cart
// unchanged.
func (c *Cart) AddLine(productID uuid.UUID, variantID *uuid.UUID, quantity int, unitPrice decimal.Decimal, now time.Time) (Line, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return Line{}, apperr.Newf(apperr.KindValidation, "quantity must be between 1 and %d, got %d", MaxLineQuantity, quantity)
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID != productID || !sameVariant(c.Lines[i].VariantID, variantID) {
			continue
		}

		merged := c.Lines[i].Quantity + quantity
		if merged > MaxLineQuantity {
			return Line{}, apperr.Newf(apperr.KindValidation,
				"quantity for this item would exceed %d (currently %d)", MaxLineQuantity, c.Lines[i].Quantity)
		}

		c.Lines[i].Quantity = merged
		c.Lines[i].UnitPrice = unitPrice
		c.LastActivity = now
		return c.Lines[i], nil
	}

	line := Line{
		ID:        uuid.New(),
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	c.Lines = append(c.Lines, line)
	c.LastActivity = now
	return line, nil
}

func (c *Cart) RemoveLine(lineID uuid.UUID, now time.Time) error {
	for i := range c.Lines {
		if c.Lines[i].ID != lineID {
			continue
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		c.LastActivity = now
		return nil
	}
	return apperr.Newf(apperr.KindNotFound, "cart line %s not found", lineID)
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func sameVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
