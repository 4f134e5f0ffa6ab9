package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry with HTTP and sale metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	salesTotal      *prometheus.CounterVec
	saleRevenue     prometheus.Counter
	saleProfit      prometheus.Counter
	saleLoss        prometheus.Counter
	saleLines       prometheus.Histogram
	reversalsTotal  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopledger_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopledger_sales_total",
		Help: "Sale commit attempts by outcome.",
	}, []string{"outcome"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopledger_sale_revenue_total",
		Help: "Revenue of committed sales.",
	})
	profit := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopledger_sale_profit_total",
		Help: "Profit of committed sales that sold above cost.",
	})
	loss := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopledger_sale_loss_total",
		Help: "Loss of committed sales that sold below cost. Net profit is profit_total minus loss_total.",
	})
	lines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopledger_sale_lines",
		Help:    "Number of items per committed sale.",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})
	reversals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopledger_sale_reversals_total",
		Help: "Sales deleted with restock.",
	})

	registry.MustRegister(
		requests, duration, sales, revenue, profit, loss, lines, reversals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		salesTotal:      sales,
		saleRevenue:     revenue,
		saleProfit:      profit,
		saleLoss:        loss,
		saleLines:       lines,
		reversalsTotal:  reversals,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) SaleCommitted(revenue, profit float64, lines int) {
	if m == nil {
		return
	}
	m.salesTotal.WithLabelValues("committed").Inc()
	m.saleRevenue.Add(nonNegative(revenue))
	if profit < 0 {
		m.saleLoss.Add(-profit)
	} else {
		m.saleProfit.Add(profit)
	}
	m.saleLines.Observe(float64(lines))
}

// SaleFailed counts a rejected or aborted commit; reason is a short error code.
func (m *Metrics) SaleFailed(reason string) {
	if m == nil {
		return
	}
	m.salesTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) SaleReplayed() {
	if m == nil {
		return
	}
	m.salesTotal.WithLabelValues("replayed").Inc()
}

func (m *Metrics) SaleReversed() {
	if m == nil {
		return
	}
	m.reversalsTotal.Inc()
}

// Counters must not go down.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
