package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	categorycontroller "shopledger/internal/category/controller"
	"shopledger/internal/commons"
	"shopledger/internal/infrastructure/metrics"
	productcontroller "shopledger/internal/product/controller"
	reportcontroller "shopledger/internal/report/controller"
	salecontroller "shopledger/internal/sale/controller"
)

type Controllers struct {
	Category *categorycontroller.CategoryController
	Product  *productcontroller.ProductController
	Sale     *salecontroller.SaleController
	Report   *reportcontroller.ReportController
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterOptions struct {
	// RateLimitPerMinute caps requests per client IP; zero disables the limit.
	RateLimitPerMinute int
	// MaxBodyBytes caps request bodies on API routes; zero disables the cap.
	MaxBodyBytes int64
	Metrics      *metrics.Metrics
	DB           Pinger
}

func NewRouter(c Controllers, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(traceID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders(logger))
	r.Use(opts.Metrics.Middleware)

	r.Get("/healthz", healthz(opts.DB, logger))
	r.Handle("/metrics", opts.Metrics.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		if opts.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(opts.MaxBodyBytes))
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", c.Category.List)
			r.Post("/", c.Category.Create)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", c.Product.List)
			r.Post("/", c.Product.Create)
			r.Get("/{id}", c.Product.Get)
			r.Patch("/{id}", c.Product.Update)
			r.Delete("/{id}", c.Product.Delete)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", c.Sale.List)
			r.Post("/", c.Sale.Create)
			r.Get("/{id}", c.Sale.Get)
			r.Patch("/{id}", c.Sale.Update)
			r.Delete("/{id}", c.Sale.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", c.Report.Summary)
			r.Get("/revenue", c.Report.Revenue)
			r.Get("/low-stock", c.Report.LowStock)
		})
	})

	return r
}

func healthz(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			commons.Logger(r.Context(), logger).Warn("health check failed", zap.Error(err))
			commons.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
			return
		}
		commons.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
