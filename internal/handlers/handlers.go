package handlers

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/middleware"
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthChecker — проверка доступности БД (*sql.DB подходит).
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	Router chi.Router
}

// Options — необязательные зависимости роутера.
type Options struct {
	Health  HealthChecker
	Limiter *middleware.RateLimiter
	// Now — часы сервера; nil означает time.Now.
	Now func() time.Time
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	trackerService *service.TrackerService,
	supportService *service.SupportService,
	logger *zap.SugaredLogger,
	config *config.Config,
	opts Options,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Monitor)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	loc, err := time.LoadLocation(config.CheckInTZ)
	if err != nil {
		logger.Warnw("unknown check-in time zone, using UTC", "tz", config.CheckInTZ, "error", err)
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Handlers
	userHandler := NewUserHandler(userService, trackerService, supportService, logger, config)
	trackerHandler := NewTrackerHandler(trackerService, logger, func() time.Time { return now().In(loc) })
	supportHandler := NewSupportHandler(supportService, logger)
	paymentHandler := NewPaymentHandler(supportService, logger, config.MPWebhookSecret)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Get("/api/user/me", userHandler.Me)
	r.Get("/api/profiles/{username}", userHandler.Profile)

	// Addictions / goals
	for _, kind := range []model.ItemKind{model.KindAddiction, model.KindGoal} {
		base := "/api/" + collection(kind)
		r.Post(base, trackerHandler.Create(kind))
		r.Get(base, trackerHandler.List(kind))
		r.Post(base+"/{id}/checkin", trackerHandler.CheckIn(kind))
		r.Patch(base+"/{id}/visibility", trackerHandler.SetVisibility(kind))
	}

	// Supports
	r.Post("/api/supports", supportHandler.Create)
	r.Post("/api/supports/{id}/retry", supportHandler.Retry)
	r.Get("/api/supports/received", supportHandler.Received)
	r.Get("/api/supports/sent", supportHandler.Sent)
	r.Get("/api/users/{id}/supports", supportHandler.Public)

	// Payment gateway
	r.Post("/api/mercadopago/webhook", paymentHandler.Webhook)
	r.Get("/payment/{outcome}", paymentHandler.Redirect)

	// Service
	r.Get("/healthz", healthz(opts.Health))
	// сжатие ответа делает WithGzip, promhttp не должен сжимать повторно
	metricsHandler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true})
	r.With(middleware.BasicAuth(config.MetricsUser, config.MetricsPass)).Handle("/metrics", metricsHandler)

	return &Handler{Router: r}
}

func collection(kind model.ItemKind) string {
	if kind == model.KindAddiction {
		return "addictions"
	}
	return "goals"
}

func healthz(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
