package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/core/config"
	"github.com/Marcelo-Rosas/container-storage/internal/core/container"
	"github.com/Marcelo-Rosas/container-storage/internal/core/logger"
	"github.com/Marcelo-Rosas/container-storage/internal/core/routes"
	"github.com/Marcelo-Rosas/container-storage/internal/database"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := cfg.Validate(); err != nil {
			return err
		}

		migrate, _ := cmd.Flags().GetBool("migrate")
		if migrate {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}

		return serve(cmd.Context(), cfg, log)
	},
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Applies the SQL migrations and rewrites container statuses stored with the legacy enumeration.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		migrationDir, _ := cmd.Flags().GetString("dir")
		if migrationDir == "" {
			migrationDir = cfg.MigrationsDir
		}

		if err := database.RunMigrations(cfg.DatabaseURL, migrationDir, log); err != nil {
			log.Error("Migration failed", zap.Error(err))
			return fmt.Errorf("migrate database: %w", err)
		}

		db, err := database.NewPostgresConnection(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		normalized, err := database.NormalizeLegacyStatuses(cmd.Context(), repository.NewRepository(db), log)
		if err != nil {
			return fmt.Errorf("normalize statuses: %w", err)
		}
		log.Info("Migration finished", zap.Int64("normalized_statuses", normalized))

		return nil
	},
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, log, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	forms.RegisterValidators()

	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Connected to the database")

	app, err := container.NewAppContainer(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.AppHost,
		Handler:           routes.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", cfg.AppHost), zap.String("version", cfg.AppVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("Server exited")
	return nil
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:          "container-storage",
		Short:        "Container storage management service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ServeCmd.RunE(cmd, args)
		},
	}
	rootCmd.Flags().Bool("migrate", false, "Apply migrations before serving")
	ServeCmd.Flags().Bool("migrate", false, "Apply migrations before serving")
	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
	rootCmd.AddCommand(ServeCmd, MigrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
