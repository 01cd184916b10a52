package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/config"
	"seisaku-manager/internal/database"
	"seisaku-manager/internal/eventbus"
	"seisaku-manager/internal/handlers"
	"seisaku-manager/internal/server"
	"seisaku-manager/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBDSN, cfg.DBConnectAttempts, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return err
	}

	bus := eventbus.New()
	projects := database.NewProjectStore(db, bus)
	users := database.NewUserStore(db)
	svc := tracker.NewService(projects, tracker.WithLogger(logger))
	coll := tracker.NewCollection(projects, logger)

	go func() {
		if err := coll.Run(ctx, bus); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("project collection stopped", "error", err)
		}
	}()

	h := handlers.New(handlers.Deps{
		Service:    svc,
		Collection: coll,
		Users:      users,
		Audit:      database.NewAuditTrail(db),
		Bus:        bus,
		Logger:     logger,
	})
	r := server.NewRouter(server.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  cfg.CookieSecure,
		Logger:        logger,
	}, h, users)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end when the process is signalled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
