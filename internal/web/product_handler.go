package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type ProductService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (catalogdomain.Product, error)
	ListProducts(ctx context.Context, filter catalogdomain.ListFilter) ([]catalogdomain.Product, int, error)
}

type ProductHandler struct {
	svc ProductService
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := catalogdomain.ListFilter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     catalogdomain.ParseSortKey(q.Get("sort")),
		Desc:     q.Get("order") == "desc",
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, apperr.New(apperr.KindValidation, "min_price must be a decimal"))
			return
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, apperr.New(apperr.KindValidation, "max_price must be a decimal"))
			return
		}
		filter.MaxPrice = &d
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}

	// Echo the clamped paging values, not the raw request ones, so clients
	// can page from what the query actually used.
	filter = filter.Normalized()

	products, total, err := h.svc.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	page := PageDTO[ProductDTO]{
		Items:      make([]ProductDTO, 0, len(products)),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	for _, p := range products {
		page.Items = append(page.Items, toProductDTO(p))
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "product id must be a valid uuid"))
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductDTO(product))
}
