// Package metrics — счётчики prometheus сервера.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized or forbidden responses",
		},
		[]string{"reason"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)

	// CheckIns — отметки по виду элемента и результату (checked_in / already_checked_in).
	CheckIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitoria_checkins_total",
			Help: "Check-in attempts by item kind and result",
		},
		[]string{"kind", "result"},
	)
	// Pledges — события жизненного цикла поддержки.
	Pledges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitoria_pledges_total",
			Help: "Support pledge lifecycle events",
		},
		[]string{"event"},
	)
	// Webhooks — входящие уведомления шлюза по исходу обработки.
	Webhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitoria_payment_webhooks_total",
			Help: "Payment gateway notifications by outcome",
		},
		[]string{"outcome"},
	)
)

// События поддержки для Pledges.
const (
	PledgeCreated      = "created"
	PledgeGatewayError = "gateway_error"
	PledgeCompleted    = "completed"
	PledgeFailed       = "failed"
)

var registerOnce sync.Once

// Register регистрирует коллекторы в reg ровно один раз за процесс.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			RateLimited,
			CheckIns,
			Pledges,
			Webhooks,
		)
	})
}
