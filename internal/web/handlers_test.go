package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/vgclassic/storefront/internal/cart/domain"
	catalogdomain "github.com/vgclassic/storefront/internal/catalog/domain"
	checkoutapp "github.com/vgclassic/storefront/internal/checkout/app"
	orderdomain "github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
	"github.com/vgclassic/storefront/pkg/metrics"
)

type stubCartService struct {
	cart cartdomain.Cart
	err  error

	lastOwner    string
	lastQuantity int
	lastLineID   uuid.UUID
}

func (s *stubCartService) GetCart(_ context.Context, ownerID string) (cartdomain.Cart, error) {
	s.lastOwner = ownerID
	return s.cart, s.err
}

func (s *stubCartService) AddToCart(_ context.Context, ownerID string, _ uuid.UUID, _ *uuid.UUID, quantity int) (cartdomain.Cart, error) {
	s.lastOwner = ownerID
	s.lastQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveFromCart(_ context.Context, ownerID string, lineID uuid.UUID) (cartdomain.Cart, error) {
	s.lastOwner = ownerID
	s.lastLineID = lineID
	return s.cart, s.err
}

type stubCheckoutService struct {
	order orderdomain.Order
	err   error
	info  checkoutapp.ShippingInfo
}

func (s *stubCheckoutService) Checkout(_ context.Context, _ string, info checkoutapp.ShippingInfo) (orderdomain.Order, error) {
	s.info = info
	return s.order, s.err
}

type stubOrderService struct {
	orders []orderdomain.Order
	order  orderdomain.Order
	err    error
}

func (s *stubOrderService) Orders(context.Context, string) ([]orderdomain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) Order(context.Context, string, uuid.UUID) (orderdomain.Order, error) {
	return s.order, s.err
}

type stubProductService struct {
	product catalogdomain.Product
	err     error
	filter  catalogdomain.ListFilter
}

func (s *stubProductService) GetProduct(context.Context, uuid.UUID) (catalogdomain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) ListProducts(_ context.Context, f catalogdomain.ListFilter) ([]catalogdomain.Product, int, error) {
	s.filter = f
	return []catalogdomain.Product{s.product}, 1, s.err
}

type testEnv struct {
	handler http.Handler
	reg     *prometheus.Registry
	m       *metrics.ServerMetrics

	cart     *stubCartService
	checkout *stubCheckoutService
	orders   *stubOrderService
	products *stubProductService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		reg:      prometheus.NewRegistry(),
		cart:     &stubCartService{},
		checkout: &stubCheckoutService{},
		orders:   &stubOrderService{},
		products: &stubProductService{product: catalogdomain.Product{ID: uuid.New(), Name: "Trail Jacket", State: catalogdomain.StateActive}},
	}
	env.m = metrics.NewServerMetrics(env.reg, "storefront_test")
	env.handler = NewRouter(Services{
		Cart:     env.cart,
		Checkout: env.checkout,
		Orders:   env.orders,
		Products: env.products,
	}, env.m, env.reg)
	return env
}

func (e *testEnv) do(method, target, owner string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if owner != "" {
		req.Header.Set("X-User-ID", owner)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTPStatusFromKind(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:             http.StatusBadRequest,
		apperr.KindCartEmpty:              http.StatusBadRequest,
		apperr.KindNotAuthenticated:       http.StatusUnauthorized,
		apperr.KindNotFound:               http.StatusNotFound,
		apperr.KindProductUnavailable:     http.StatusConflict,
		apperr.KindOutOfStock:             http.StatusConflict,
		apperr.KindConcurrentModification: http.StatusConflict,
		apperr.KindPersistence:            http.StatusServiceUnavailable,
		apperr.KindUnknown:                http.StatusInternalServerError,
	}

	for kind, want := range cases {
		assert.Equal(t, want, httpStatusFromKind(kind), kind.String())
	}
}

func TestRespondError_OpaqueInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("pq: connection refused to 10.0.3.7"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body.Error, "internal details must not leak")
}

func TestGetCart(t *testing.T) {
	env := newTestEnv()
	env.cart.cart = cartdomain.New("owner-1", time.Now())
	_, err := env.cart.cart.AddLine(uuid.New(), nil, 2, decimal.RequireFromString("25.00"), time.Now())
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/v1/cart", "owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", env.cart.lastOwner)

	var dto CartDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, 2, dto.ItemCount)
	assert.True(t, dto.Subtotal.Equal(decimal.RequireFromString("50.00")))
}

func TestAddItem(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/cart/items", "owner-1", map[string]any{
		"product_id": uuid.New(),
		"quantity":   3,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, env.cart.lastQuantity)
}

func TestAddItem_BadRequests(t *testing.T) {
	env := newTestEnv()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
		req.Header.Set("X-User-ID", "owner-1")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing product id", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/cart/items", "owner-1", map[string]any{"quantity": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out of stock maps to conflict", func(t *testing.T) {
		env.cart.err = apperr.New(apperr.KindOutOfStock, "insufficient stock")
		defer func() { env.cart.err = nil }()

		rec := env.do(http.MethodPost, "/api/v1/cart/items", "owner-1", map[string]any{
			"product_id": uuid.New(),
			"quantity":   1,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "OUT_OF_STOCK", body.Code)
	})
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv()
	lineID := uuid.New()

	rec := env.do(http.MethodDelete, "/api/v1/cart/items/"+lineID.String(), "owner-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, lineID, env.cart.lastLineID)

	rec = env.do(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", "owner-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func checkoutBody() map[string]any {
	return map[string]any{
		"shipping_address": map[string]string{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"line1":      "12 Analytical Way",
			"city":       "London",
			"zip_code":   "N1 9GU",
			"country":    "UK",
		},
	}
}

func TestCheckout_Created(t *testing.T) {
	env := newTestEnv()
	env.checkout.order = orderdomain.Order{ID: uuid.New(), OrderNumber: "VG20260828120000-a1b2c3"}

	rec := env.do(http.MethodPost, "/api/v1/orders", "owner-1", checkoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, env.checkout.order.ID, resp.OrderID)
	assert.Equal(t, "VG20260828120000-a1b2c3", resp.OrderNumber)
	assert.Equal(t, "Ada", env.checkout.info.Address.FirstName)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.m.Checkouts.WithLabelValues("success")))
}

func TestCheckout_FailureStatusAndMetric(t *testing.T) {
	cases := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.KindCartEmpty, http.StatusBadRequest},
		{apperr.KindOutOfStock, http.StatusConflict},
		{apperr.KindConcurrentModification, http.StatusConflict},
		{apperr.KindPersistence, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			env := newTestEnv()
			env.checkout.err = apperr.New(tc.kind, "checkout failed")

			rec := env.do(http.MethodPost, "/api/v1/orders", "owner-1", checkoutBody())
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, float64(1), testutil.ToFloat64(env.m.Checkouts.WithLabelValues(tc.kind.String())))
		})
	}
}

func TestListOrders_Summaries(t *testing.T) {
	env := newTestEnv()
	env.orders.orders = []orderdomain.Order{{
		ID:          uuid.New(),
		OrderNumber: "VG20260828120000-a1b2c3",
		Status:      orderdomain.StatusPending,
		Total:       decimal.RequireFromString("64.00"),
		Lines:       []orderdomain.Line{{Quantity: 2}, {Quantity: 1}},
	}}

	rec := env.do(http.MethodGet, "/api/v1/orders", "owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []OrderSummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].ItemCount)
	assert.Equal(t, "pending", summaries[0].Status)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv()
	env.orders.err = apperr.New(apperr.KindNotFound, "order not found")

	rec := env.do(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), "owner-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_QueryParsing(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/v1/products?q=jacket&category=outerwear&sort=price&order=desc&page=2&page_size=10&min_price=5.00&featured=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f := env.products.filter
	assert.Equal(t, "jacket", f.Search)
	assert.Equal(t, "outerwear", f.Category)
	assert.Equal(t, catalogdomain.SortByPrice, f.Sort)
	assert.True(t, f.Desc)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 10, f.PageSize)
	require.NotNil(t, f.MinPrice)
	assert.True(t, f.MinPrice.Equal(decimal.RequireFromString("5.00")))
	require.NotNil(t, f.Featured)
	assert.True(t, *f.Featured)
}

func TestListProducts_PagingEchoIsNormalized(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/v1/products?page=0&page_size=500", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page PageDTO[ProductDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, catalogdomain.MaxPageSize, page.PageSize, "the echoed size must be the clamped one the query used")
}

func TestGetProduct_CategoryAndImages(t *testing.T) {
	env := newTestEnv()
	env.products.product.Category = "outerwear"
	env.products.product.Images = []string{"https://cdn.example.com/jacket-front.jpg", "https://cdn.example.com/jacket-back.jpg"}

	rec := env.do(http.MethodGet, "/api/v1/products/"+env.products.product.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "outerwear", dto.Category)
	require.Len(t, dto.Images, 2)
	assert.Equal(t, "https://cdn.example.com/jacket-front.jpg", dto.Images[0], "image order is presentation order")
}

func TestListProducts_BadPriceFilter(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/v1/products?min_price=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 5; i++ {
		env.do(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), "owner-1", nil)
	}

	// One logical route, one series, regardless of the path parameter.
	assert.Equal(t, 1, testutil.CollectAndCount(env.m.LatencyMS))
	assert.Equal(t, float64(5), testutil.ToFloat64(env.m.Requests.WithLabelValues("GET /api/v1/orders/{orderID}", "200")))
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
