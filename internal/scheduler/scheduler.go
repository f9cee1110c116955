// Package scheduler wires up the cron job that periodically re-runs the
// pipeline in watch mode.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron around one recurring task.
type Scheduler struct {
	cron *cron.Cron
	task Task
	spec string // cron spec, e.g. "@every 6h"
	log  *zap.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(intervalHours int, task Task, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		task: task,
		spec: fmt.Sprintf("@every %dh", intervalHours),
		log:  log,
	}
}

// Start registers the job and starts the scheduler. Also runs the task
// immediately so the first results don't wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.String("spec", s.spec))

	go s.runOnce(ctx)
	return nil
}

// Stop shuts the scheduler down. Running tasks finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.task(ctx); err != nil {
		s.log.Error("scheduled run failed", zap.Error(err))
	}
}
