// Package domain holds the pure pricing calculator. It has no dependencies
// on stores or transports; rates come in through PricingConfig so tests can
// vary them per case.
package domain

import "github.com/shopspring/decimal"

type PricingConfig struct {
	// ShippingFlat is charged whenever the subtotal is positive.
	ShippingFlat decimal.Decimal
	// TaxRate is applied once on the aggregate subtotal.
	TaxRate decimal.Decimal
	// Discount is retained for future promo support and is zero today.
	Discount decimal.Decimal
}

type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Price computes the money amounts for a set of lines. The subtotal carries
// full precision across lines; tax is rounded half-up to 2 decimal places
// exactly once, on the aggregate, so rounding error cannot accumulate
// per line.
func Price(items []Item, cfg PricingConfig) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = cfg.ShippingFlat
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	discount := cfg.Discount

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(shipping).Add(tax).Sub(discount),
	}
}
