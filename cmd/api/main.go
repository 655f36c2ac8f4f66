package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferreteria/ordenes-api/internal/app"
	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/handler"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/middleware"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/routes"
	"github.com/ferreteria/ordenes-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.Name, cfg.App.Debug)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer limiter.Stop()

	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(a.Auth),
		User:    handler.NewUserHandler(a.Users),
		Order:   handler.NewOrderHandler(a.Orders),
		Receipt: handler.NewReceiptHandler(a.Orders, a.Receipts, a.Printer),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  a.JWTManager,
		Cfg:         cfg,
		Log:         log,
		RateLimiter: limiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
