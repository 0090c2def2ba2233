package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/telemetry"
)

// order-notifier observes order_created events published by the storefront
// and logs one notification line per placed order.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger("order-notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.EventsTopic, cfg.ConsumerGroup, func(ctx context.Context, e events.OrderCreated) error {
		logger.InfoContext(ctx, "order placed",
			"order_id", e.OrderID,
			"customer_id", e.CustomerID,
			"items", e.ItemCount,
			"total", e.Total,
			"placed_at", e.PlacedAt,
		)
		return nil
	}, cfg.KafkaBrokers...)
	defer consumer.Close()

	slog.Info("order-notifier consuming", "topic", cfg.EventsTopic, "group", cfg.ConsumerGroup)
	consumer.Run(ctx)
	slog.Info("order-notifier stopped")
}
