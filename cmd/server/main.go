package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"

	"github.com/hydrosense/hydrosense/internal/alerts"
	"github.com/hydrosense/hydrosense/internal/api"
	"github.com/hydrosense/hydrosense/internal/auth"
	"github.com/hydrosense/hydrosense/internal/config"
	"github.com/hydrosense/hydrosense/internal/metrics"
	"github.com/hydrosense/hydrosense/internal/monitor"
	"github.com/hydrosense/hydrosense/internal/mqttsource"
	"github.com/hydrosense/hydrosense/internal/registry"
	"github.com/hydrosense/hydrosense/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("hydrosense-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"stream_interval", cfg.Server.Stream.Interval,
		"mqtt_enabled", cfg.MQTT.BrokerURL != "",
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Unit registry and the monitor service over it.
	reg := registry.New()
	svc := monitor.New(reg)

	// Alerts engine — evaluates rules after every accepted reading.
	alertEngine := alerts.New(cfg.Alerts)
	svc.OnIngest(alertEngine.Evaluate)

	// Hot-reload alert rules when the config file changes on disk.
	go func() {
		if err := config.WatchAlertRules(ctx, *configPath, alertEngine.SetRules); err != nil {
			slog.Warn("alert rule hot reload disabled", "err", err)
		}
	}()

	// Optional MQTT ingest path for units publishing over a broker.
	if cfg.MQTT.BrokerURL != "" {
		src := mqttsource.New(svc, cfg.MQTT)
		if err := src.Start(); err != nil {
			slog.Error("failed to start mqtt source", "err", err)
			os.Exit(1)
		}
		defer src.Close()
	}

	// WebSocket hub — broadcasts the units overview to dashboard clients.
	hub := ws.New(svc, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/", api.New(svc, alertEngine))
	httpMux.Handle("/ws/overview", hub)
	httpMux.Handle("/metrics", metrics.NewHandler(svc))

	// Middleware chain: recovery, CORS, API key auth, request logging.
	authn := auth.Middleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	corsOpts := []handlers.CORSOption{
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", cfg.Server.Auth.EffectiveHeader()}),
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOpts = append(corsOpts, handlers.AllowedOrigins(cfg.Server.CORSOrigins))
	}
	handler := handlers.RecoveryHandler()(
		handlers.CORS(corsOpts...)(
			authn(
				handlers.LoggingHandler(os.Stdout, httpMux),
			),
		),
	)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: handler,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("hydrosense-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
