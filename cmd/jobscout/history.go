package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobscout-engine/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent pipeline runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		runs, err := st.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if jsonLog {
			return json.NewEncoder(os.Stdout).Encode(runs)
		}

		for _, r := range runs {
			fmt.Printf("%s  raw=%d deduped=%d filtered=%d verified=%d final=%d",
				r.StartedAt.Format("2006-01-02 15:04"),
				r.RawCount, r.DedupedCount, r.FilteredCount, r.VerifiedCount, r.FinalCount)
			if r.FallbackUsed {
				fmt.Printf("  fallback")
			}
			fmt.Println()
			if len(r.TopConcepts) > 0 {
				fmt.Printf("  top concepts: %v\n", r.TopConcepts)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "max runs to print (default: full retained history)")
	rootCmd.AddCommand(historyCmd)
}
