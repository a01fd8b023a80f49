package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions is the forward-only happy path plus cancellation, which is
// only reachable before shipment. Refunds and returns are a separate
// workflow and never reuse these states.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Address struct {
	FirstName string
	LastName  string
	Line1     string
	Line2     string
	City      string
	State     string
	ZipCode   string
	Country   string
	Phone     string
}

// Line is an immutable snapshot of a cart line at checkout time. Product
// name and variant label are copied as text so later catalog edits or
// deletions cannot rewrite history.
type Line struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	VariantID    *uuid.UUID
	ProductName  string
	VariantLabel string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineDiscount decimal.Decimal
	LineTotal    decimal.Decimal
}

// Order is immutable after creation except for its status fields, which an
// external fulfillment flow advances. Total is fixed at creation and never
// recomputed.
type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	OwnerID       string
	PlacedAt      time.Time
	Status        Status
	PaymentStatus PaymentStatus

	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal

	ShippingAddress Address
	BillingAddress  *Address
	CustomerNotes   string

	Lines []Line
}

// ItemCount is the sum of line quantities, used by order listings.
func (o Order) ItemCount() int {
	var n int
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

const orderNumberPrefix = "VG"

// NewOrderNumber builds a human-readable order number: prefix, UTC
// timestamp at second granularity, and a random suffix so concurrent
// checkouts within the same second cannot collide.
func NewOrderNumber(now time.Time) string {
	var suffix [3]byte
	_, _ = rand.Read(suffix[:])
	return orderNumberPrefix + now.UTC().Format("20060102150405") + "-" + hex.EncodeToString(suffix[:])
}
