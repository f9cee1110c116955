package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/pipeline"
	"jobscout-engine/internal/secrets"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/adzuna"
	"jobscout-engine/internal/source/curated"
	"jobscout-engine/internal/source/dice"
	"jobscout-engine/internal/source/inbox"
	"jobscout-engine/internal/source/linkedin"
	"jobscout-engine/internal/source/usajobs"
	"jobscout-engine/internal/store"
	"jobscout-engine/internal/verify"
)

var (
	profilePath string
	location    string
	jsonOut     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the pipeline once and print ranked postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return scan(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to the resume/profile text file (required)")
	scanCmd.Flags().StringVarP(&location, "location", "l", "", "location hint, overrides the configured one")
	scanCmd.Flags().BoolVar(&jsonOut, "json-output", false, "print the full result as JSON")
	_ = scanCmd.MarkFlagRequired("profile")
}

func scan(ctx context.Context) error {
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
	result, err := engine.Run(ctx, string(profile), loc)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	printResult(result)
	return nil
}

func buildEngine(cfg config.Config, st pipeline.Store, log *zap.Logger) *pipeline.Engine {
	var adapters []source.Adapter

	if cfg.Sources.USAJobs.Enabled && cfg.Sources.USAJobs.APIKey != "" && cfg.Sources.USAJobs.Email != "" {
		adapters = append(adapters, usajobs.New(usajobs.Config{
			APIKey: cfg.Sources.USAJobs.APIKey,
			Email:  cfg.Sources.USAJobs.Email,
		}))
	}
	if cfg.Sources.Adzuna.Enabled && cfg.Sources.Adzuna.AppID != "" && cfg.Sources.Adzuna.AppKey != "" {
		adapters = append(adapters, adzuna.New(adzuna.Config{
			AppID:  cfg.Sources.Adzuna.AppID,
			AppKey: cfg.Sources.Adzuna.AppKey,
		}))
	}
	if cfg.Sources.LinkedIn.Enabled {
		adapters = append(adapters, linkedin.New())
	}
	if cfg.Sources.Dice.Enabled {
		adapters = append(adapters, dice.New())
	}
	if cfg.Inbox.Enabled {
		pw, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
		if err != nil {
			log.Warn("inbox source skipped", zap.Error(err))
		} else {
			adapters = append(adapters, inbox.New(inbox.Config{
				IMAPHost:     cfg.Inbox.IMAPHost,
				IMAPPort:     cfg.Inbox.IMAPPort,
				Username:     cfg.Inbox.Username,
				Password:     pw,
				LookbackDays: cfg.Inbox.LookbackDays,
				MaxMessages:  cfg.Inbox.MaxMessages,
			}, log))
		}
	}

	gatherer := &pipeline.Gatherer{
		Adapters:        adapters,
		AdapterTimeout:  cfg.AdapterTimeout(),
		PhaseTimeout:    cfg.PhaseTimeout(),
		FallbackEnabled: cfg.Fallback.Enabled,
		MinRaw:          cfg.Fallback.MinRaw,
		MinPromising:    cfg.Fallback.MinPromising,
		Fallback:        curated.Postings,
		Log:             log,
		Now:             time.Now,
	}

	var verifier pipeline.Verifier = verify.New(verify.Config{
		MaxPerRun:      cfg.Verify.MaxPerRun,
		Timeout:        cfg.VerifyTimeout(),
		Delay:          cfg.VerifyDelay(),
		MinDescription: cfg.Verify.MinDescription,
	}, log)
	if !cfg.Verify.Enabled {
		verifier = passthroughVerifier{}
	}

	return &pipeline.Engine{
		Gatherer:   gatherer,
		Filter:     pipeline.NewFilter(cfg.Filters.RecencyDays, cfg.Filters.TopicTerms, cfg.Search.Location, log),
		Verifier:   verifier,
		Store:      st,
		MaxPages:   cfg.Search.MaxPages,
		ExtraTerms: cfg.Search.Terms,
		Log:        log,
		Now:        time.Now,
	}
}

// passthroughVerifier keeps every posting unverified when verification is
// disabled in config.
type passthroughVerifier struct{}

func (passthroughVerifier) Verify(_ context.Context, scored []domain.ScoredPosting) []domain.VerifiedPosting {
	out := make([]domain.VerifiedPosting, 0, len(scored))
	for _, p := range scored {
		out = append(out, domain.VerifiedPosting{ScoredPosting: p})
	}
	return out
}

func printResult(r *domain.RunResult) {
	printTier := func(name string, postings []domain.VerifiedPosting) {
		if len(postings) == 0 {
			return
		}
		fmt.Printf("\n%s (%d)\n", name, len(postings))
		for _, p := range postings {
			marker := "  "
			if p.IsNew {
				marker = "* "
			}
			fmt.Printf("%s[%3d] %s | %s (%s)\n", marker, p.MatchScore, p.Title, p.Company, p.Location)
			fmt.Printf("       %s\n", p.URL)
			if p.RoleReason != "" {
				fmt.Printf("       note: %s\n", p.RoleReason)
			}
		}
	}

	printTier("Excellent matches (90+)", r.High)
	printTier("Good matches (75-89)", r.Good)
	printTier("Fair matches (50-74)", r.Fair)

	fmt.Printf("\n%d postings total, %d raw gathered", len(r.All), r.Run.RawCount)
	if r.Run.FallbackUsed {
		fmt.Printf(" (curated fallback injected)")
	}
	fmt.Println()
}
