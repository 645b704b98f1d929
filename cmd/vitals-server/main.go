package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitals/vitals/internal/config"
	"github.com/vitals/vitals/internal/domain/alert"
	"github.com/vitals/vitals/internal/domain/reading"
	"github.com/vitals/vitals/internal/platform/db"
	"github.com/vitals/vitals/internal/platform/evaluator"
	"github.com/vitals/vitals/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitals-server",
		Short: "Patient vitals ingestion and alerting services",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start one or both services",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "intake",
		Short: "Start the reading intake service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(true, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "alerts",
		Short: "Start the threshold evaluator service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(false, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Start both services in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(true, true)
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServices(intake, alerts bool) error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	var servers []*http.Server

	if alerts {
		svcLogger := logger.With().Str("service", "alerts").Logger()
		e := newEcho(svcLogger)
		svc := alert.NewService(alert.NewRepoPG(pool), svcLogger)
		alert.NewHandler(svc).RegisterRoutes(e)
		servers = append(servers, startServer(e, cfg.AlertPort, "alerts", svcLogger))
	}

	if intake {
		svcLogger := logger.With().Str("service", "intake").Logger()
		e := newEcho(svcLogger)
		client := evaluator.NewClient(cfg.AlertServiceURL,
			time.Duration(cfg.AlertTimeoutSeconds)*time.Second, svcLogger)
		svc := reading.NewService(reading.NewRepoPG(pool), client, svcLogger)
		reading.NewHandler(svc).RegisterRoutes(e)
		servers = append(servers, startServer(e, cfg.IntakePort, "intake", svcLogger))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
	}
	return nil
}

func newEcho(logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	return e
}

func startServer(e *echo.Echo, port, name string, logger zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: e,
	}
	go func() {
		logger.Info().Str("service", name).Str("port", port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Str("service", name).Msg("server failed")
		}
	}()
	return srv
}
