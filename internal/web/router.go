package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vgclassic/storefront/pkg/metrics"
)

type Services struct {
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderService
	Products ProductService
}

func NewRouter(svcs Services, m *metrics.ServerMetrics, reg *prometheus.Registry) http.Handler {
	cartHandler := NewCartHandler(svcs.Cart)
	orderHandler := NewOrderHandler(svcs.Checkout, svcs.Orders, m)
	productHandler := NewProductHandler(svcs.Products)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware(m))
	r.Use(OwnerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{lineID}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Post("/", orderHandler.Checkout)
			r.Get("/{orderID}", orderHandler.GetOrder)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{productID}", productHandler.GetProduct)
		})
	})

	return r
}
