package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/events"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/service"
	"github.com/fjod/storefront/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		Enabled:     cfg.OTELEnabled,
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTELEndpoint,
		Environment: cfg.Environment,
	})
	if err != nil {
		fatal("failed to initialise tracer", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		fatal("failed to run migrations", err)
	}
	slog.Info("database migrations completed")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// The cache is optional: without Redis every read goes to Postgres.
	var cartCache cache.CartCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, cart cache disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		cartCache = cache.NewRedisCache(redisClient)
	}

	sink, err := newSink(cfg, logger)
	if err != nil {
		fatal("failed to create notification sink", err)
	}
	dispatcher := events.NewDispatcher(
		events.NewBreakerSink(cfg.NotifierBackend, sink, 5, 30*time.Second),
		cfg.EventBuffer,
		5*time.Second,
	)
	dispatcher.Start()

	checkoutService := service.NewCheckoutService(repo, cartCache, dispatcher)
	cartService := service.NewCartService(repo, cartCache)
	catalogService := service.NewCatalogService(repo)
	customerService := service.NewCustomerService(repo)
	orderService := service.NewOrderService(repo)

	router := h.NewRouter(h.RouterConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		RequestTimeout: cfg.RequestTimeout,
		Carts:          h.NewCartHandler(cartService, cfg.RequestTimeout),
		Orders:         h.NewOrderHandler(checkoutService, orderService, customerService, cfg.RequestTimeout),
		Catalog:        h.NewCatalogHandler(catalogService, cfg.RequestTimeout),
		Customers:      h.NewCustomerHandler(customerService, cfg.RequestTimeout),
		Health:         repo,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("storefront listening", "addr", srv.Addr, "notifier", cfg.NotifierBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	// Drain pending notifications once no request can enqueue more.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		slog.Error("notification dispatcher did not drain", "error", err)
	}

	slog.Info("server exited")
}

func newSink(cfg *config.Config, logger *slog.Logger) (events.Sink, error) {
	switch cfg.NotifierBackend {
	case config.BackendKafka:
		return events.NewKafkaSink(cfg.EventsTopic, cfg.KafkaBrokers...), nil
	case config.BackendRabbitMQ:
		return events.NewRabbitMQSink(cfg.RabbitMQURL, cfg.RabbitExchange)
	default:
		return events.NewLogSink(logger.With("component", "notifier")), nil
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
