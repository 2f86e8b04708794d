package server

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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/buildhomemart/homemart/internal/infrastructure/migration"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/buildhomemart/homemart/internal/interfaces/http"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the HomeMart HTTP server with the payment reconciler running in the background.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.ResolveEnv(env)

	app, err := bootstrap.Open(cmd.Context(), env, true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	log := app.Log
	cfg := app.Config

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"redis", app.Redis != nil)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(app); err != nil {
		return err
	}

	container := httpRouter.NewContainer(app.DB, app.Redis, cfg, log)
	container.SetupRoutes()
	if err := container.StartBackground(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Infow("shutting down server...")
	case err := <-serveErr:
		log.Errorw("failed to start server", "error", err)
		_ = container.Shutdown(context.Background())
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	if err := container.Shutdown(ctx); err != nil {
		log.Errorw("background jobs did not stop cleanly", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(app *bootstrap.Env) error {
	migrator := migration.NewGooseMigrator(app.Log)

	if autoMigrate {
		if env == constants.EnvProduction {
			app.Log.Warnw("auto-migration is enabled in production environment")
		}
		if err := migrator.Up(app.DB); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	version, err := migrator.Version(app.DB)
	if err != nil {
		app.Log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	app.Log.Infow("current migration version", "version", version)
	return nil
}
