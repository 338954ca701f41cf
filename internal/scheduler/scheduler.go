package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/pworker3/whispers/internal/runner"
)

// Scheduler runs the relay on a cron spec for deployments without an external
// trigger. Single-shot invocations bypass it entirely.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *runner.Runner
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *runner.Runner) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(),
		Runner: r,
		Ctx:    ctx,
	}
}

// Register adds the relay run at the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		if err := s.Runner.Run(s.Ctx); err != nil {
			log.Printf("[ERROR] scheduled run: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
