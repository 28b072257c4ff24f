package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/BookingGo/internal/service"
	"github.com/utafrali/BookingGo/pkg/health"
	"github.com/utafrali/BookingGo/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	healthRegistry *health.Registry,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(CORS)

	// Health check endpoints
	r.Get("/health/live", healthRegistry.Liveness())
	r.Get("/health/ready", healthRegistry.Readiness())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.GuestSession())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Get("/contains/{hotelId}/{roomId}", cartHandler.Contains)
			r.Delete("/items/{itemId}", cartHandler.RemoveItem)
			r.Patch("/items/{itemId}/dates", cartHandler.UpdateDates)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/summary", checkoutHandler.Summary)
			r.Post("/", checkoutHandler.Submit)
		})

		r.Get("/bookings", checkoutHandler.ListReceipts)
		r.Get("/bookings/{confirmationNumber}", checkoutHandler.GetReceipt)
	})

	return r
}
