package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "clinic-data-exchange/docs"
	"clinic-data-exchange/internal/adapters/auth/jwtverifier"
	"clinic-data-exchange/internal/adapters/auth/registry"
	"clinic-data-exchange/internal/adapters/capabilities/networkplans"
	pg "clinic-data-exchange/internal/adapters/storage/postgres"
	"clinic-data-exchange/internal/platform/config"
	"clinic-data-exchange/internal/platform/logger"
	"clinic-data-exchange/internal/platform/metrics"
	"clinic-data-exchange/internal/ports/auth"
	"clinic-data-exchange/internal/ports/capabilities"
	"clinic-data-exchange/internal/router"
)

// @title        Clinic Data Exchange API
// @version      1.0
// @description  Motor de economía de créditos para compartir datos clínicos entre clínicas.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	var db *sql.DB
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		db, err = pg.Open(dsn)
		if err != nil {
			log.Error("postgres connect failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		log.Error("auth setup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	caps := buildCapabilities(cfg, log)

	r := router.NewRouter(router.Options{
		AuthVerifier:  verifier,
		DB:            db,
		Caps:          caps,
		ApprovalDelay: cfg.Requests.ApprovalDelay,
		Logger:        log,
		Metrics:       metrics.New(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier arma el AuthVerifier según AUTH_MODE.
// nil => modo dev (header X-Debug-Clinic-ID).
func buildVerifier(cfg *config.Config) (auth.AuthVerifier, error) {
	switch strings.TrimSpace(cfg.Auth.Mode) {
	case "", "none":
		return nil, nil
	case "jwt":
		return jwtverifier.New(cfg.Auth.JWTSecret)
	case "registry":
		client, err := registry.NewClient(registry.Config{
			BaseURL: cfg.Auth.RegistryBaseURL,
			APIKey:  cfg.Auth.RegistryAPIKey,
		})
		if err != nil {
			return nil, err
		}
		return registry.NewVerifier(client), nil
	default:
		return nil, nil
	}
}

// buildCapabilities: sin BaseURL no hay gating (nil resolver = todo permitido).
func buildCapabilities(cfg *config.Config, log logger.Logger) capabilities.CapabilitiesResolver {
	if strings.TrimSpace(cfg.Plans.BaseURL) == "" {
		return nil
	}
	client, err := networkplans.NewClient(networkplans.Config{
		BaseURL: cfg.Plans.BaseURL,
		APIKey:  cfg.Plans.APIKey,
	})
	if err != nil {
		log.Warn("network-plans client misconfigured, gating disabled", map[string]any{"error": err.Error()})
		return nil
	}
	return networkplans.NewResolver(client, false)
}
