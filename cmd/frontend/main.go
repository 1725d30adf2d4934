// Package main is the entrypoint for the bank front-end server.
package main

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bankdemo/frontend/internal/auth"
	"github.com/bankdemo/frontend/internal/backend"
	"github.com/bankdemo/frontend/internal/config"
	"github.com/bankdemo/frontend/internal/handler"
	"github.com/bankdemo/frontend/internal/metrics"
	"github.com/bankdemo/frontend/internal/server"
	"github.com/bankdemo/frontend/internal/service"
	"github.com/bankdemo/frontend/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Load the token verification key
	publicKey, err := auth.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		logger.Error("failed to load public key",
			slog.String("path", cfg.PublicKeyPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	verifier := auth.NewVerifier(publicKey, logger)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	// Initialize backend client
	client := backend.NewClient(backend.ClientConfig{
		Endpoints: backend.EndpointsFromAddrs(
			cfg.TransactionsAddr,
			cfg.BalancesAddr,
			cfg.HistoryAddr,
			cfg.TokenCreatorAddr,
			cfg.ContactsAddr,
		),
		ReadTimeout: cfg.BackendTimeout,
		Metrics:     recorder,
		Logger:      logger,
	})

	// Initialize services
	bank := service.NewBank(service.BankConfig{
		Backend:         client,
		Verifier:        verifier,
		LocalRoutingNum: cfg.LocalRoutingNum,
		Metrics:         recorder,
		Logger:          logger,
	})

	renderer, err := view.New(cfg.Location())
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Initialize handlers and router
	r := handler.NewRouter(handler.RouterConfig{
		Handler:            handler.New(renderer, logger),
		Health:             handler.NewHealthHandler(client, backend.Services, publicKey != nil),
		Metrics:            handler.NewMetricsHandler(registry),
		Bank:               handler.NewBankHandler(bank, renderer, cfg.CookieSecure, logger),
		Verifier:           verifier,
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("backend client", client.Close)

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"local_routing_num", cfg.LocalRoutingNum,
		"display_timezone", cfg.Location().String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
// Records carry their source location.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.LogLevel),
		AddSource: true,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
