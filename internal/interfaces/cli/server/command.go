package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/subtrack/internal/interfaces/http"
)

const shutdownTimeout = 30 * time.Second

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the subscription tracker HTTP API, the reminder scheduler and the websocket relay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, autoMigrate)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending database migrations on startup")

	return cmd
}

func run(parent context.Context, opts *bootstrap.Options, autoMigrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Boot(ctx, opts, autoMigrate)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.Config
	log := rt.Log

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	container, err := httpRouter.NewContainer(cfg, rt.DB, rt.Redis, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	container.SetupRoutes()
	if err := container.StartBackground(ctx); err != nil {
		return fmt.Errorf("failed to start background services: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"environment", opts.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Errorw("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
