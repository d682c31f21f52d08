package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// credential store
	StoreOpDuration *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec

	// session authenticator
	LoginsTotal   *prometheus.CounterVec
	LiveSessions  prometheus.Gauge
	SessionsTotal *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "creatorlink",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "creatorlink",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "creatorlink",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "creatorlink",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Credential store operation latency (logical op)",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1},
			},
			[]string{"op", "status"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "creatorlink",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Credential store errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "creatorlink",
				Subsystem: "auth",
				Name:      "logins_total",
				Help:      "Login attempts by outcome.",
			},
			[]string{"outcome"}, // outcome=ok|rejected|error
		),
		LiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "creatorlink",
				Subsystem: "auth",
				Name:      "live_sessions",
				Help:      "Best-effort count of sessions created minus destroyed (per process).",
			},
		),
		SessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "creatorlink",
				Subsystem: "auth",
				Name:      "sessions_total",
				Help:      "Session lifecycle events.",
			},
			[]string{"event"}, // event=created|destroyed|expired
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.StoreOpDuration, p.StoreErrors, p.LoginsTotal, p.LiveSessions, p.SessionsTotal)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
