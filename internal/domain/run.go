package domain

import "time"

// Histogram bucket labels, in presentation order.
const (
	BucketHigh = "90+"
	BucketGood = "75-89"
	BucketFair = "50-74"
	BucketLow  = "<50"
)

// PipelineRun is the aggregate record of one pipeline execution. It is created
// once per run, appended to a bounded history, and never mutated afterwards.
type PipelineRun struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RawCount      int `json:"raw"`
	DedupedCount  int `json:"deduped"`
	FilteredCount int `json:"filtered"`
	ScoredCount   int `json:"scored"`
	VerifiedCount int `json:"verified"`
	FinalCount    int `json:"final"`

	PerSource      map[string]int `json:"per_source"`
	ScoreHistogram map[string]int `json:"score_histogram"`

	// TopConcepts are the taxonomy concepts most frequent among top-tier
	// postings, an observability signal only; nothing feeds it back into the
	// scoring weights.
	TopConcepts []string `json:"top_concepts"`

	FallbackUsed bool `json:"fallback_used"`
}

// RunResult is what the pipeline hands the presentation layer: the tiered
// posting lists plus the full run statistics.
type RunResult struct {
	High []VerifiedPosting // score >= 90
	Good []VerifiedPosting // 75-89
	Fair []VerifiedPosting // 50-74
	All  []VerifiedPosting // every surviving posting, sorted

	Run PipelineRun
}
