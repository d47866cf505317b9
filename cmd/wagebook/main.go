package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/wagebook-hr/wagebook/internal/app"
	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/payroll"
	"github.com/wagebook-hr/wagebook/internal/platform/db"
	"github.com/wagebook-hr/wagebook/internal/report"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
	"github.com/wagebook-hr/wagebook/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	employeeRepo := employee.NewRepository(pool)
	employeeHandler := employee.NewHandler(logger, employeeRepo)

	rulesRepo := rules.NewRepository(pool)
	rulesService := rules.NewService(rulesRepo)
	rulesHandler := rules.NewHandler(logger, rulesService)
	resolver := rules.NewResolver(rulesRepo)

	bonusRepo := bonus.NewRepository(pool)
	bonusService := bonus.NewService(bonusRepo)
	bonusHandler := bonus.NewHandler(logger, bonusService)

	runLock := shared.NewRunLock(redisClient, cfg.RunLockTTL)
	payrollRepo := payroll.NewRepository(pool)
	payrollService := payroll.NewService(payrollRepo, employeeRepo, resolver, bonusService, runLock, logger)
	payrollHandler := payroll.NewHandler(logger, payrollService, employeeRepo)

	reportRepo := report.NewRepository(pool)
	reportService := report.NewService(reportRepo, cfg.ContributionRate())
	reportHandler := report.NewHandler(logger, reportService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		EmployeeHandler: employeeHandler,
		RulesHandler:    rulesHandler,
		BonusHandler:    bonusHandler,
		PayrollHandler:  payrollHandler,
		ReportHandler:   reportHandler,
		JobHandler:      jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
