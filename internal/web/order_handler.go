package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	checkoutapp "github.com/vgclassic/storefront/internal/checkout/app"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
	"github.com/vgclassic/storefront/pkg/metrics"
)

type CheckoutService interface {
	Checkout(ctx context.Context, ownerID string, info checkoutapp.ShippingInfo) (orderdomain.Order, error)
}

type OrderService interface {
	Orders(ctx context.Context, ownerID string) ([]orderdomain.Order, error)
	Order(ctx context.Context, ownerID string, orderID uuid.UUID) (orderdomain.Order, error)
}

type OrderHandler struct {
	checkout CheckoutService
	orders   OrderService
	m        *metrics.ServerMetrics
}

func NewOrderHandler(checkout CheckoutService, orders OrderService, m *metrics.ServerMetrics) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, m: m}
}

type checkoutRequest struct {
	ShippingAddress AddressDTO  `json:"shipping_address"`
	BillingAddress  *AddressDTO `json:"billing_address,omitempty"`
	CustomerNotes   string      `json:"customer_notes,omitempty"`
}

type checkoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "invalid JSON body"))
		return
	}

	info := checkoutapp.ShippingInfo{
		Address:       toAddress(req.ShippingAddress),
		CustomerNotes: req.CustomerNotes,
	}
	if req.BillingAddress != nil {
		b := toAddress(*req.BillingAddress)
		info.BillingAddress = &b
	}

	order, err := h.checkout.Checkout(r.Context(), ownerID(r.Context()), info)
	h.recordOutcome(err)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{OrderID: order.ID, OrderNumber: order.OrderNumber})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Orders(r.Context(), ownerID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	summaries := make([]OrderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, toOrderSummaryDTO(o))
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "order id must be a valid uuid"))
		return
	}

	order, err := h.orders.Order(r.Context(), ownerID(r.Context()), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *OrderHandler) recordOutcome(err error) {
	if h.m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	h.m.Checkouts.WithLabelValues(outcome).Inc()
}
