package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobscout-engine/internal/scheduler"
	"jobscout-engine/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on a schedule until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return watch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to the resume/profile text file (required)")
	watchCmd.Flags().StringVarP(&location, "location", "l", "", "location hint, overrides the configured one")
	_ = watchCmd.MarkFlagRequired("profile")
}

func watch(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profile, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}

	loc := location
	if loc == "" {
		loc = cfg.Search.Location
	}

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "jobscout.db"))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := store.New(db, cfg.Store.RunHistory)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg, st, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cfg.Watch.IntervalHours, func(ctx context.Context) error {
		result, err := engine.Run(ctx, string(profile), loc)
		if err != nil {
			return err
		}
		log.Info("scheduled run complete",
			zap.Int("total", len(result.All)),
			zap.Int("excellent", len(result.High)),
			zap.Int("good", len(result.Good)))
		return nil
	}, log)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	<-ctx.Done()
	return nil
}
