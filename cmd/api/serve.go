package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/worklog-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/worklog-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/sse"
	reportService "github.com/cmlabs-hris/worklog-backend-go/internal/service/report"
	workLogService "github.com/cmlabs-hris/worklog-backend-go/internal/service/worklog"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var runMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, runMigrations)
		},
	}

	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, runMigrations bool) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := appHTTP.NewLogger(level, cfg.App.Name, cfg.App.Version, cfg.App.Env)
	slog.SetDefault(logger)

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	if runMigrations {
		if err := st.migrate(database.Up); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("Migrations applied", "driver", cfg.App.StoreDriver)
	}

	dayRange := reportService.NaiveDayRange
	if cfg.Report.CalendarDayRange {
		dayRange = reportService.CalendarDayRange
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub(32)

	workLogSvc := workLogService.NewWorkLogService(st.workLogRepo, hub)
	reportSvc := reportService.NewReportService(st.employeeRepo, st.workLogRepo, dayRange)

	workLogHandler := appHTTP.NewWorkLogHandler(workLogSvc, st.employeeRepo, time.Now, location)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventHandler := appHTTP.NewEventHandler(JWTService, hub, st.employeeRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       level,
			AllowedOrigins: cfg.App.AllowedOrigins,
			ManagersGroup:  cfg.App.ManagersGroup,
		},
		JWTService,
		workLogHandler,
		reportHandler,
		eventHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams only return once their channel closes
	server.RegisterOnShutdown(hub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.App.StoreDriver, "timezone", location.String())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
