package web

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
)

type CartLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Lines     []CartLineDTO   `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func toCartDTO(c cartdomain.Cart) CartDTO {
	dto := CartDTO{
		ID:        c.ID,
		Lines:     make([]CartLineDTO, 0, len(c.Lines)),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
	}
	for _, l := range c.Lines {
		dto.Lines = append(dto.Lines, CartLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return dto
}

type AddressDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

func toAddress(a AddressDTO) orderdomain.Address {
	return orderdomain.Address(a)
}

func fromAddress(a orderdomain.Address) AddressDTO {
	return AddressDTO(a)
}

type OrderLineDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type OrderDTO struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	PlacedAt        time.Time       `json:"placed_at"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Tax             decimal.Decimal `json:"tax"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress AddressDTO      `json:"shipping_address"`
	BillingAddress  *AddressDTO     `json:"billing_address,omitempty"`
	Lines           []OrderLineDTO  `json:"lines"`
}

func toOrderDTO(o orderdomain.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		PlacedAt:        o.PlacedAt,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		Subtotal:        o.Subtotal,
		Shipping:        o.Shipping,
		Tax:             o.Tax,
		Discount:        o.Discount,
		Total:           o.Total,
		ShippingAddress: fromAddress(o.ShippingAddress),
		Lines:           make([]OrderLineDTO, 0, len(o.Lines)),
	}
	if o.BillingAddress != nil {
		b := fromAddress(*o.BillingAddress)
		dto.BillingAddress = &b
	}
	for _, l := range o.Lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			ProductID:    l.ProductID,
			VariantID:    l.VariantID,
			ProductName:  l.ProductName,
			VariantLabel: l.VariantLabel,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			LineTotal:    l.LineTotal,
		})
	}
	return dto
}

type OrderSummaryDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	PlacedAt    time.Time       `json:"placed_at"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

func toOrderSummaryDTO(o orderdomain.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		PlacedAt:    o.PlacedAt,
		Status:      string(o.Status),
		Total:       o.Total,
		ItemCount:   o.ItemCount(),
	}
}

type VariantDTO struct {
	ID              uuid.UUID       `json:"id"`
	Label           string          `json:"label"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
	InStock         bool            `json:"in_stock"`
}

type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
	Featured    bool            `json:"featured"`
	Images      []string        `json:"images"`
	Variants    []VariantDTO    `json:"variants"`
}

func toProductDTO(p catalogdomain.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		InStock:     p.StockQuantity > 0,
		Featured:    p.Featured,
		Images:      p.Images,
		Variants:    make([]VariantDTO, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		if !v.State.Sellable() {
			continue
		}
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:              v.ID,
			Label:           v.Label,
			AdditionalPrice: v.AdditionalPrice,
			InStock:         v.StockQuantity > 0,
		})
	}
	return dto
}

type PageDTO[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
