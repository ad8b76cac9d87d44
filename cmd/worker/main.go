// Package main is the entry point for the opticore background worker.
// It drains the transactional outbox and prunes expired refresh tokens.
// It never touches ledger balances; those move only through API requests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"opticore/internal/infrastructure/storage/postgres"
	"opticore/internal/infrastructure/storage/postgres/auth_repo"
	"opticore/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting opticore worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	batchSize := getEnvInt("OUTBOX_BATCH_SIZE", 100)
	relay := postgres.NewOutboxRelay(pool.Unwrap(), batchSize, &eventLogger{log: log})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runOutboxRelay(ctx, relay, log, getEnvDuration("OUTBOX_POLL_INTERVAL", 5*time.Second))
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTokenCleanup(ctx, tokenRepo, log, getEnvDuration("TOKEN_CLEANUP_INTERVAL", time.Hour))
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// runOutboxRelay polls the outbox and processes pending messages.
// Failed messages past their retry budget are moved to the DLQ.
func runOutboxRelay(ctx context.Context, relay *postgres.OutboxRelay, log *logger.Logger, interval time.Duration) {
	relayLog := log.WithComponent("outbox-relay")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			processed, err := relay.ProcessBatch(ctx)
			if err != nil {
				relayLog.Errorw("failed to process outbox batch", "error", err)
				continue
			}
			if processed > 0 {
				relayLog.Infow("processed outbox messages", "count", processed)
			}

			moved, err := relay.MoveToDLQ(ctx)
			if err != nil {
				relayLog.Errorw("failed to move messages to DLQ", "error", err)
				continue
			}
			if moved > 0 {
				relayLog.Warnw("moved failed messages to DLQ", "count", moved)
			}
		}
	}
}

// runTokenCleanup periodically removes expired refresh tokens.
func runTokenCleanup(ctx context.Context, tokens *auth_repo.TokenRepo, log *logger.Logger, interval time.Duration) {
	cleanupLog := log.WithComponent("token-cleanup")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			removed, err := tokens.CleanupExpiredTokens(ctx)
			if err != nil {
				cleanupLog.Errorw("failed to cleanup expired tokens", "error", err)
				continue
			}
			if removed > 0 {
				cleanupLog.Infow("removed expired refresh tokens", "count", removed)
			}
		}
	}
}

// eventLogger is the default outbox handler. It logs each event and
// acknowledges it; swap in a broker-backed handler to deliver alerts
// to an external channel.
type eventLogger struct {
	log *logger.Logger
}

func (h *eventLogger) Handle(_ context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("outbox event",
		"event_type", msg.EventType,
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
		"payload", string(msg.Payload),
	)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
