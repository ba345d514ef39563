// Command vbank-audit-worker consumes activity events from the broker and
// appends them to the local audit log.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"vbank/internal/cli"
	applog "vbank/internal/log"
	"vbank/internal/notify"
	"vbank/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting audit worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	amqpClient, err := notify.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker := worker.NewAuditWorker(store)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := auditWorker.StartupReport(ctx); err != nil {
		logger.Error("Startup check failed", "error", err)
		os.Exit(1)
	}

	go func() {
		err := amqpClient.ConsumeActivity(ctx, func(event *notify.ActivityEvent) error {
			return auditWorker.HandleActivityEvent(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Audit worker stopped gracefully")
}
