package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the product lifecycle. Only active products are sellable; the
// explicit enum leaves room for further states without overloading a flag.
type State string

const (
	StateDraft    State = "draft"
	StateActive   State = "active"
	StateArchived State = "archived"
)

func (s State) Sellable() bool { return s == StateActive }

func ParseState(v string) (State, bool) {
	switch State(v) {
	case StateDraft, StateActive, StateArchived:
		return State(v), true
	}
	return "", false
}

type Variant struct {
	ID    uuid.UUID
	Label string
	SKU   string
	// AdditionalPrice is added on top of the product base price.
	AdditionalPrice decimal.Decimal
	StockQuantity   int
	State           State
}

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Brand         string
	Category      string
	SKU           string
	Price         decimal.Decimal
	StockQuantity int
	State         State
	Featured      bool
	// Images are display URLs in presentation order, first is the cover.
	Images    []string
	Variants  []Variant
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Variant(id uuid.UUID) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Snapshot is the read contract consumed by the cart and checkout flows:
// the sellable state, live stock and current unit price of one product or
// product variant, plus the display text copied into order lines.
type Snapshot struct {
	ProductID     uuid.UUID
	VariantID     *uuid.UUID
	Name          string
	VariantLabel  string
	UnitPrice     decimal.Decimal
	StockQuantity int
	Sellable      bool
}

// SortKey is the closed set of product list orderings. Each key maps to a
// known column in the repository; there is no dynamic field access.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
	SortByDate  SortKey = "date"
)

func ParseSortKey(v string) SortKey {
	switch SortKey(v) {
	case SortByPrice:
		return SortByPrice
	case SortByDate:
		return SortByDate
	default:
		return SortByName
	}
}

type ListFilter struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured *bool
	Sort     SortKey
	Desc     bool
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalized clamps paging to [1, MaxPageSize] and defaults the sort key,
// so callers echo back the values the query actually used.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Sort == "" {
		f.Sort = SortByName
	}
	return f
}
