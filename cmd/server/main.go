// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/config"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/observability/metrics"
	"github.com/rentdesk/rentdesk/internal/observability/tracing"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/store/memory"
	"github.com/rentdesk/rentdesk/internal/store/postgres"
	"github.com/rentdesk/rentdesk/internal/store/redis"
	"github.com/rentdesk/rentdesk/internal/tenant"
	transportHTTP "github.com/rentdesk/rentdesk/internal/transport/http"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	slog.Info("starting rentdesk", logger.String("api_base_url", cfg.API.BaseURL))

	ctx := context.Background()

	// Spans fall back to a no-op tracer when export cannot be set up.
	traces, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   cfg.Observability.SamplingRate,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer traces.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
		meter = metrics.Noop()
	}
	instruments, err := meter.Instruments()
	if err != nil {
		slog.Error("failed to create instruments", logger.Error(err))
		instruments = metrics.NoopInstruments()
	}

	// Session store
	sessionRepo, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", logger.String("store", cfg.Session.Store), logger.Error(err))
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("session store ready", logger.String("store", cfg.Session.Store))

	auditLogger := audit.NewSlogLogger(slog.Default())
	apiClient := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, apiclient.WithInstruments(instruments))

	// Initialize services
	sessionService := session.NewService(sessionRepo, cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	tenantService := tenant.NewService(apiClient, auditLogger, traces.Tracer, instruments)

	// Expired session cleanup
	scheduler := cron.New(cron.WithLocation(time.UTC))
	if _, err := scheduler.AddFunc(cfg.Session.CleanupSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := sessionService.CleanupExpired(jobCtx); err != nil {
			slog.ErrorContext(jobCtx, "failed to cleanup expired sessions", logger.Error(err))
		}
	}); err != nil {
		slog.Error("failed to schedule session cleanup", logger.Error(err))
		os.Exit(1)
	}
	scheduler.Start()

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	// Configure SameSite mode
	sameSite := http.SameSiteLaxMode
	switch cfg.Session.CookieSameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		sessionService,
		tenantService,
		apiClient,
		auditLogger,
		instruments,
		transportHTTP.SessionConfig{
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     cfg.Session.CookiePath,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHTTPOnly: cfg.Session.CookieHTTPOnly,
			CookieSameSite: sameSite,
			MaxAge:         cfg.Session.Lifetime,
		},
		transportHTTP.LiveConfig{
			Interval:     cfg.Poll.Interval,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	)

	router := transportHTTP.NewRouter(handler, rateLimiter, cfg.CORS.AllowedOrigins)

	// Live feeds hold hijacked connections that Shutdown does not wait for;
	// cancelling the base context ends them.
	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}
	<-scheduler.Stop().Done()

	slog.Info("server stopped")
}

// openSessionStore connects the configured session backend and returns a
// function that releases it.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Repository, func(), error) {
	switch cfg.Session.Store {
	case config.StorePostgres:
		db, err := postgres.New(ctx, databaseConfig(cfg))
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSessionRepository(db), db.Close, nil

	case config.StoreRedis:
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionRepository(client), closer(client), nil

	default:
		return memory.NewSessionRepository(), func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close session store", logger.Error(err))
		}
	}
}

func databaseConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

// runMigrate creates the PostgreSQL sessions table.
func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, databaseConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying sessions schema...")
	if err := db.Migrate(ctx, postgres.SessionsSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
