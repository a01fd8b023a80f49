package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type CartService interface {
	GetCart(ctx context.Context, ownerID string) (cartdomain.Cart, error)
	AddToCart(ctx context.Context, ownerID string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (cartdomain.Cart, error)
	RemoveFromCart(ctx context.Context, ownerID string, lineID uuid.UUID) (cartdomain.Cart, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type addItemRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.GetCart(r.Context(), ownerID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "invalid JSON body"))
		return
	}
	if req.ProductID == uuid.Nil {
		respondError(w, apperr.New(apperr.KindValidation, "product_id is required"))
		return
	}

	cart, err := h.svc.AddToCart(r.Context(), ownerID(r.Context()), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartDTO(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "line id must be a valid uuid"))
		return
	}

	cart, err := h.svc.RemoveFromCart(r.Context(), ownerID(r.Context()), lineID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}
