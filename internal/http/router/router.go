package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/inventory-ledger/docs"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Options struct {
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   func(context.Context) error
	// AllowedOrigins defaults to any origin. Credentials are never allowed;
	// clients authenticate with a bearer token.
	AllowedOrigins []string
}

// NewRouter wires every route onto a chi router wrapped in CORS.
func NewRouter(opts Options) http.Handler {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(opts.Logger, opts.Metrics))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handlers.HealthHandler(opts.Health))
	r.With(mw.RateLimitMiddleware).Post("/login", handlers.LoginHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/{sku}", handlers.GetProductHandler)
	r.Get("/products/{sku}/transactions", handlers.GetTransactionsHandler)

	r.Get("/check", handlers.CheckHandler)
	r.Get("/reports", handlers.ReportHandler)
	r.Get("/reports/daily-stock", handlers.DailyStockHandler)
	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Post("/transactions", handlers.CreateTransactionHandler)
		r.Post("/undo", handlers.UndoHandler)
		r.Post("/admin/users", handlers.CreateUserHandler)

		r.Route("/uploads", func(r chi.Router) {
			r.Use(mw.RateLimitMiddleware)
			r.Post("/catalog", handlers.UploadCatalogHandler)
			r.Post("/stock", handlers.UploadStockHandler)
			r.Post("/daily", handlers.UploadDailyHandler)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
	})

	return c.Handler(r)
}
