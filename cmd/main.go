package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-console/internal/console"
	"loan-console/internal/handler"
	mid "loan-console/internal/middleware"
	"loan-console/internal/view"
	"loan-console/pkg/config"
	"loan-console/pkg/loanapi"
	"loan-console/pkg/logger"
	"loan-console/prometheus"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "loan-console"

func main() {
	// Load configuration
	appConfig, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+serviceName, appConfig.LogFields()...)

	// Initialize Prometheus metrics
	metrics := prometheus.InitMetrics(appConfig.Metrics.Prefix, promclient.DefaultRegisterer)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Backend client and page state
	client := loanapi.NewClient(appConfig.API.BaseURL, appConfig.API.Timeout, log.Named("loanapi"), metrics)
	loanConsole := console.New(client, clockwork.NewRealClock(), log.Named("console"), metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The page still renders without partners; the banner carries the error.
	if err := loanConsole.LoadPartners(ctx); err != nil {
		log.Warn("Initial partner load failed", zap.String("api_base_url", appConfig.API.BaseURL), zap.Error(err))
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to load templates", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware("/fragments/status", "/health", "/metrics"))
	e.Use(mid.MetricsMiddleware(metrics))

	// Routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.NewHealthHandler(serviceName, client).HealthCheck)
	handler.NewConsoleHandler(loanConsole).Register(e)

	// Start server
	port := appConfig.Server.Port
	go func() {
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
