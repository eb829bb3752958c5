package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vincentmpho/food-service-go/internal/metrics"
)

type Handlers struct {
	Menu     *MenuHandler
	Cart     *CartHandler
	Payment  *PaymentHandler
	Checkout *CheckoutHandler
	Order    *OrderHandler
}

func NewRouter(h Handlers, m *metrics.ServerMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Menu.ListMenu)

		r.Get("/cart", h.Cart.GetCart)
		r.Post("/cart", h.Cart.ApplyDelta)
		r.Delete("/cart", h.Cart.ClearCart)

		r.Post("/payments", h.Payment.MakePayment)
		r.Post("/checkout", h.Checkout.Checkout)

		r.Get("/orders", h.Order.ListOrders)
		r.Get("/orders/{orderId}", h.Order.GetOrder)
		r.Put("/orders/{orderId}", h.Order.UpdateOrder)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "food-service"})
}
