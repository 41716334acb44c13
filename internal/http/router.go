package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/sales-analytics/internal/http/handlers"
)

// NewRouter wires every reporting endpoint. Paths keep their trailing slashes;
// that is the published contract.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RateLimitMiddleware)

	r.Get("/api/health", handlers.HealthHandler)

	r.Get("/api/suppliers/", handlers.SuppliersHandler)
	r.Get("/api/clients/", handlers.ClientsHandler)
	r.Get("/api/products/", handlers.ProductsHandler)
	r.Get("/api/dashboard/", handlers.DashboardHandler)
	r.Post("/api/import/csv", handlers.ImportCSVHandler)

	r.Get("/powerbi/sales-summary/", handlers.SalesSummaryHandler)
	r.Get("/powerbi/country-metrics/", handlers.CountryMetricsHandler)
	r.Get("/powerbi/product-metrics/", handlers.ProductMetricsHandler)
	r.Get("/powerbi/monthly-trends/", handlers.MonthlyTrendsHandler)
	r.Get("/powerbi/sales-channel-metrics/", handlers.SalesChannelMetricsHandler)
	r.Get("/powerbi/regional-summary/", handlers.RegionalSummaryHandler)

	return r
}
