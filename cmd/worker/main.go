package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/costbook/backend/internal/app"
	"github.com/costbook/backend/internal/config"
	"github.com/costbook/backend/internal/jobs"
	"github.com/costbook/backend/internal/logging"
)

func main() {
	once := flag.String("once", "", "run a single job (popularity|snapshots) and exit")
	flag.Parse()

	logging.Setup(logging.Options{Service: "costbook-worker"})

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal("startup failed", "error", err)
	}
	defer a.Close()

	sched := jobs.NewScheduler(ctx, 30*time.Minute)
	if err := sched.Add(jobs.PopularityJobName, cfg.PopularitySchedule, jobs.Popularity(a.Popularity)); err != nil {
		logging.Fatal("schedule failed", "error", err)
	}
	if err := sched.Add(jobs.SnapshotJobName, cfg.SnapshotSchedule, jobs.Snapshots(a.Snapshots)); err != nil {
		logging.Fatal("schedule failed", "error", err)
	}

	if *once != "" {
		if !sched.RunNow(*once) {
			slog.Error("unknown job", "job", *once)
			os.Exit(2)
		}
		return
	}

	sched.Start()
	slog.Info("worker started")
	<-ctx.Done()
	sched.Stop()
	slog.Info("worker stopped")
}
