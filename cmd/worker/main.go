package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/startupops/backend/internal/audit"
	"github.com/startupops/backend/internal/config"
	"github.com/startupops/backend/internal/database"
	"github.com/startupops/backend/internal/email"
	"github.com/startupops/backend/internal/notification"
	"github.com/startupops/backend/internal/queue"
	"github.com/startupops/backend/internal/queue/workers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	auditWorker := workers.NewAuditWorker(audit.NewService(db, nil))
	emailWorker := workers.NewEmailWorker(email.NewMailer(cfg.SMTP))
	notifWorker := workers.NewNotificationWorker(notification.NewService(db, nil))

	registry.Register(queue.TypeAuditWrite, asynq.HandlerFunc(auditWorker.ProcessTask))
	registry.Register(queue.TypeEmailSend, asynq.HandlerFunc(emailWorker.ProcessTask))
	registry.Register(queue.TypeNotificationCreate, asynq.HandlerFunc(notifWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
