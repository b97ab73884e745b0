// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/starsync/internal/api"
	"github.com/tomtom215/starsync/internal/auth"
	"github.com/tomtom215/starsync/internal/config"
	"github.com/tomtom215/starsync/internal/control"
	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/plex"
	"github.com/tomtom215/starsync/internal/scheduler"
	"github.com/tomtom215/starsync/internal/settings"
	"github.com/tomtom215/starsync/internal/supervisor"
	"github.com/tomtom215/starsync/internal/supervisor/services"
	"github.com/tomtom215/starsync/internal/sweep"
	"github.com/tomtom215/starsync/internal/trigger"
	ws "github.com/tomtom215/starsync/internal/websocket"
)

// drainTimeout bounds how long shutdown waits for an in-flight sweep.
const drainTimeout = 30 * time.Second

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser := initLogging(cfg)
	defer func() {
		if err := logCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()

	logging.Info().
		Str("plex_url", cfg.Plex.URL).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("settings_path", cfg.Settings.Path).
		Int("batch_size", cfg.Sweep.BatchSize).
		Msg("Configuration loaded")

	// === EVENT LOG ===
	var archive *eventlog.BadgerArchive
	if cfg.EventLog.ArchiveEnabled {
		archive, err = eventlog.OpenBadgerArchive(cfg.EventLog.ArchivePath, cfg.EventLog.Capacity)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.EventLog.ArchivePath).Msg("Failed to open event log archive")
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event log archive")
			}
		}()
	}

	logCfg := eventlog.Config{
		Capacity:         cfg.EventLog.Capacity,
		SubscriberBuffer: cfg.EventLog.SubscriberBuffer,
	}
	if archive != nil {
		logCfg.Archive = archive
	}
	events := eventlog.New(logCfg)
	defer events.Close()

	if n, err := events.Restore(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to restore archived activity log")
	} else if n > 0 {
		logging.Info().Int("entries", n).Msg("Restored archived activity log")
	}

	// === SETTINGS ===
	store := settings.NewStore(settingsDefaults(cfg), cfg.Settings.Path, events)
	if err := store.Load(); err != nil {
		logging.Warn().Err(err).Msg("Using environment/default settings")
	}

	// === PLEX CLIENT ===
	plexClient := plex.NewClient(plex.Config{
		URL:               cfg.Plex.URL,
		Token:             cfg.Plex.Token,
		Timeout:           cfg.Plex.Timeout,
		RequestsPerSecond: cfg.Plex.RequestsPerSecond,
		Burst:             cfg.Plex.RequestBurst,
	})
	plexBreaker := plex.NewCircuitBreakerClient(plexClient, plex.BreakerConfig{})

	// === SWEEP ENGINE ===
	runner := sweep.NewRunner(plexBreaker, events)
	dispatcher := trigger.NewDispatcher(&trigger.Gate{}, runner, store, events, cfg.Sweep.BatchSize)
	sched := scheduler.New(scheduler.Config{}, dispatcher.PeriodicTick, events)
	if err := sched.Start(store.Current().BatchIntervalMinutes); err != nil {
		logging.Fatal().Err(err).Msg("Invalid batch interval")
	}

	svc := control.NewService(dispatcher, store, sched, plexBreaker, events, plexBreaker)
	svc.Announce()

	// === HTTP ===
	authMiddleware := initAuth(cfg)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) while authentication is enabled. Set explicit origins in production.")
	}

	hub := ws.NewHub(events)
	handler := api.NewHandler(svc, events, hub, cfg.Security.CORSOrigins)
	chiMiddleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins:       cfg.Security.CORSOrigins,
		CORSAllowedMethods:       []string{"GET", "POST", "PUT", "OPTIONS"},
		CORSAllowedHeaders:       []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSAllowCredentials:     !hasWildcard(cfg.Security.CORSOrigins),
		CORSMaxAge:               86400,
		RateLimitRequests:        cfg.Security.RateLimitReqs,
		RateLimitWindow:          cfg.Security.RateLimitWindow,
		RateLimitDisabled:        cfg.Security.RateLimitDisabled,
		WebhookRateLimitRequests: cfg.Security.WebhookRateLimitReqs,
	})
	router := api.NewRouter(handler, authMiddleware, chiMiddleware)

	// WriteTimeout stays zero: the SSE and WebSocket log streams are long-lived.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if archive != nil {
		tree.AddDataService(services.NewArchiveGCService(archive, cfg.EventLog.ArchiveGCInterval, nil))
	}
	tree.AddEngineService(services.NewSchedulerService(sched))
	tree.AddEngineService(services.NewLogStreamHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	// Let a running sweep finish so the archive sees its summary line.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), drainTimeout)
	defer drainCancel()
	if err := dispatcher.Wait(drainCtx); err != nil {
		logging.Warn().Err(err).Msg("Sweep still running at shutdown")
	}

	logging.Info().Msg("StarSync stopped gracefully")
}

// initLogging configures the global logger and the optional LOG_FILE sink.
func initLogging(cfg *config.Config) io.Closer {
	output, closer, err := logging.OpenFile(os.Stderr, cfg.Logging.File)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Logging.File).Msg("Log file disabled")
		output, closer = os.Stderr, io.NopCloser(nil)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    output,
	})
	return closer
}

// initAuth builds the control API authentication middleware.
func initAuth(cfg *config.Config) *auth.Middleware {
	switch cfg.Security.AuthMode {
	case auth.AuthModeBasic:
		manager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
		logging.Info().Str("username", cfg.Security.AdminUsername).Msg("Basic authentication enabled")
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
		return auth.NewMiddleware(manager, auth.AuthModeBasic)
	default:
		logging.Warn().Msg("SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none). The control API is open to anyone who can reach it.")
		return auth.NewMiddleware(nil, auth.AuthModeNone)
	}
}

// settingsDefaults seeds the settings store from LIBRARY_NAME, RATING_STYLE,
// TARGET_RATING, OVERRIDE_RATING and BATCH_INTERVAL_MINUTES.
func settingsDefaults(cfg *config.Config) settings.Settings {
	return settings.Settings{
		Libraries:            cfg.Settings.Libraries,
		RatingStyle:          cfg.Settings.RatingStyle,
		RatingValue:          cfg.Settings.TargetRating,
		OverrideRating:       cfg.Settings.OverrideRating,
		BatchIntervalMinutes: cfg.Settings.BatchIntervalMinutes,
	}
}

func hasWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
