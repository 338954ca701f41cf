package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pworker3/whispers/internal/config"
	"github.com/pworker3/whispers/internal/feed"
	"github.com/pworker3/whispers/internal/notifier"
	"github.com/pworker3/whispers/internal/recorder"
	"github.com/pworker3/whispers/internal/runner"
	"github.com/pworker3/whispers/internal/scheduler"
	"github.com/pworker3/whispers/internal/state"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] whispers relay starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, relying on environment variables")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init feed client
	feedClient, err := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.CalendarPath, cfg.Feed.APIPath, cfg.Proxy)
	if err != nil {
		log.Fatalf("[FATAL] init feed client: %v", err)
	}
	defer feedClient.Close()

	// Init Discord notifier and pacer
	dn := notifier.NewDiscordNotifier(cfg.Discord.WebhookURL, cfg.Proxy)
	defer dn.Close()
	pacer := notifier.NewPacer(dn, time.Duration(cfg.Delivery.IntervalMs)*time.Millisecond)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	run := runner.NewRunner(state.NewStore(cfg.State.File), feedClient, pacer, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Single-shot unless a cron spec is configured. Run errors are contained:
	// the pass already persisted its partial progress, so they do not change
	// the exit code.
	if cfg.Schedule.Cron == "" {
		if err := run.Run(ctx); err != nil {
			log.Printf("[ERROR] run finished with error: %v", err)
		}
		log.Println("[INFO] whispers relay done")
		return
	}

	sched := scheduler.NewScheduler(ctx, run)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Printf("[INFO] running on schedule %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] whispers relay stopped")
}
