package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aidin1998/qrmenu/api"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(parent context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.migrate(ctx); err != nil {
		return err
	}
	created, err := a.services.Identities.EnsureAdmin(ctx, a.cfg.Admin.Username, a.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	if created {
		a.logger.Info("bootstrap admin created", zap.String("username", a.cfg.Admin.Username))
	}

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     a.cfg.Tracing.Enabled,
		ServiceName: a.cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			a.logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(a.logger, a.services, api.Options{
		ServiceName:   a.cfg.Tracing.ServiceName,
		PublicBaseURL: a.cfg.Server.PublicBaseURL,
		CORSOrigins:   a.cfg.Server.CORSOrigins,
		LoginRPS:      a.cfg.Auth.LoginRPS,
		LoginBurst:    a.cfg.Auth.LoginBurst,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, sqlDB)
		},
	})

	httpServer := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Starting API server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		database.CollectPoolMetrics(gctx, sqlDB, a.cfg.Database.Driver, 30*time.Second)
		return nil
	})
	g.Go(func() error {
		server.RunMaintenance(gctx)
		return nil
	})

	return g.Wait()
}
