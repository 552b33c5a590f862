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

	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/migration"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/lumishop/shopadmin/internal/interfaces/http"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/version"
)

var (
	opts              bootstrap.Options
	autoMigrate       bool
	migrationStrategy string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the admin and API server with the specified configuration.`,
		RunE:  run,
	}

	opts.Bind(cmd)
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")
	cmd.Flags().StringVar(&migrationStrategy, "migration-strategy", migration.StrategyGoose, "Migration strategy used with --auto-migrate (goose, golang-migrate, auto)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	cfg := env.Config
	log := env.Log

	log.Infow("starting server",
		"environment", env.Name,
		"version", version.Current(),
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(env); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	router, err := httpRouter.NewRouter(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	router.SetupRoutes()

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           router.GetEngine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			router.Shutdown(context.Background())
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		router.Shutdown(ctx)
		return err
	}
	router.Shutdown(ctx)

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(env *bootstrap.Env) error {
	log := env.Log
	driver := database.DriverName(&env.Config.Database)

	strategy, err := migration.NewStrategy(migrationStrategy, driver, log)
	if err != nil {
		return err
	}

	if !autoMigrate {
		version, err := strategy.Version(database.Get())
		if err != nil {
			log.Warnw("failed to check migration status", "error", err)
			return nil
		}
		log.Infow("current migration version", "version", version, "strategy", strategy.Name())
		return nil
	}

	if env.Name == "production" {
		log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
	}

	log.Infow("running auto-migration", "strategy", strategy.Name())
	if err := strategy.Migrate(database.Get()); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Infow("auto-migration completed successfully")
	return nil
}
