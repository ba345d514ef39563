// Command vbank-gateway runs the aggregation gateway: it merges profile,
// accounts and transactions into one dashboard per user, fronts the AI
// assistant, and publishes activity events for the audit trail.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"vbank/internal/api"
	"vbank/internal/cli"
	"vbank/internal/dashboard"
	"vbank/internal/gateway"
	applog "vbank/internal/log"
	"vbank/internal/notify"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentGateway)

	cfg := cli.LoadAndValidateConfig(logger)

	users := api.NewUserClient(cfg.UserServiceURL, cfg.RequestTimeout)
	accounts := api.NewAccountClient(cfg.AccountServiceURL, cfg.RequestTimeout)
	transactions := api.NewTransactionClient(cfg.TransactionServiceURL, cfg.RequestTimeout)
	agent := api.NewAIAgentClient(cfg.AIAgentServiceURL, cfg.RequestTimeout)

	aggregator := dashboard.NewAggregator(users, accounts, transactions)

	var publisher gateway.ActivityPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := notify.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Activity events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Activity events disabled - no AMQP_URL provided")
	}

	srv := gateway.NewServer(":"+cfg.GatewayPort, aggregator, agent, publisher, cfg.DashboardCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting gateway",
		"port", cfg.GatewayPort,
		"cache_ttl", cfg.DashboardCacheTTL.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.GatewayPort)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Gateway stopped gracefully")
}
