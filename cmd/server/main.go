package main

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/handlers"
	"VitoriaDiaria/internal/metrics"
	"VitoriaDiaria/internal/middleware"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/payment/mercadopago"
	"VitoriaDiaria/internal/repo"
	"VitoriaDiaria/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		sugar.Fatalw("failed to get database handle", "error", err)
	}
	defer sqlDB.Close()

	var gateway payment.Gateway = payment.Disabled{}
	if cfg.MPAccessToken != "" {
		mp, err := mercadopago.New(cfg.MPAccessToken)
		if err != nil {
			sugar.Fatalw("failed to initialize Mercado Pago client", "error", err)
		}
		gateway = mp
	} else {
		sugar.Warnw("MP_ACCESS_TOKEN is empty, payments are disabled")
	}
	if cfg.MPWebhookSecret == "" {
		sugar.Warnw("MP_WEBHOOK_SECRET is empty, payment notifications will be rejected")
	}

	metrics.Register(prometheus.DefaultRegisterer)

	userRepo := repo.NewUserRepository(gormDB)
	trackerRepo := repo.NewTrackerRepository(gormDB)
	supportRepo := repo.NewSupportRepository(gormDB)

	userService := service.NewUserService(userRepo)
	trackerService := service.NewTrackerService(userRepo, trackerRepo, sugar)
	supportService := service.NewSupportService(userRepo, trackerRepo, supportRepo, gateway, cfg.PublicURL, sugar)

	limiter := middleware.NewRateLimiter(5, 30)
	if err := limiter.TrustProxies(cfg.TrustedProxyList()); err != nil {
		sugar.Fatalw("invalid TRUSTED_PROXIES", "error", err)
	}
	go limiter.Cleanup(ctx, time.Minute)

	h := handlers.NewHandler(userService, trackerService, supportService, sugar, cfg, handlers.Options{
		Health:  sqlDB,
		Limiter: limiter,
	})

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"PublicURL", cfg.PublicURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"CheckInTZ", cfg.CheckInTZ,
		"TrustedProxies", cfg.TrustedProxies,
		"PaymentsEnabled", cfg.MPAccessToken != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}
