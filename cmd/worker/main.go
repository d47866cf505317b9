package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/wagebook-hr/wagebook/internal/app"
	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/payroll"
	"github.com/wagebook-hr/wagebook/internal/platform/db"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
	"github.com/wagebook-hr/wagebook/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	employeeRepo := employee.NewRepository(pool)
	rulesRepo := rules.NewRepository(pool)
	resolver := rules.NewResolver(rulesRepo)
	bonusService := bonus.NewService(bonus.NewRepository(pool))
	runLock := shared.NewRunLock(redisClient, cfg.RunLockTTL)
	payrollRepo := payroll.NewRepository(pool)
	payrollService := payroll.NewService(payrollRepo, employeeRepo, resolver, bonusService, runLock, logger)

	monthlyTask, err := jobs.NewMonthlyRunTask()
	if err != nil {
		logger.Error("build monthly run task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypePayrollRun, Handler: jobs.NewPayrollRunHandler(payrollService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.MonthlyRunCron, Task: monthlyTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
