package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/logger"
)

const app = "jobscout"

var (
	cfgFile string
	dataDir string
	jsonLog bool
	debug   bool

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout gathers, scores, and verifies job postings against a resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml in the data dir)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory for config, database, and locks")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobscout"
	}
	return filepath.Join(home, ".jobscout")
}

func newLogger() (*zap.Logger, error) {
	return logger.New(jsonLog, debug)
}

// loadConfig resolves the config path, materializes defaults on first run,
// and validates the result. Warnings go to stderr; errors abort.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.EnsureUserConfig(dataDir)
		if err != nil {
			return config.Config{}, fmt.Errorf("preparing config: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return config.Config{}, fmt.Errorf("config %s is invalid", path)
	}

	if cfg.App.DataDir == "" {
		cfg.App.DataDir = dataDir
	}
	return cfg, nil
}
