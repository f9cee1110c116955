package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/match"
	"jobscout-engine/internal/rank"
	"jobscout-engine/internal/source"
)

// Store is the cross-run persistence the engine needs. Failures here are
// logged, never fatal: a run's results are still returned.
type Store interface {
	MarkSeen(ctx context.Context, postings []domain.VerifiedPosting) (map[string]bool, error)
	AppendRun(ctx context.Context, run domain.PipelineRun) error
	History(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}

type Verifier interface {
	Verify(ctx context.Context, scored []domain.ScoredPosting) []domain.VerifiedPosting
}

// Engine chains the six stages: gather, normalize, filter, score, verify,
// rank. Every stage after gather is a pure transformation of the previous
// stage's full result set.
type Engine struct {
	Gatherer *Gatherer
	Filter   *Filter
	Verifier Verifier
	Store    Store
	MaxPages int

	// ExtraTerms are user-configured search terms merged after the
	// profile-derived ones.
	ExtraTerms []string

	Log *zap.Logger
	Now func() time.Time
}

func (e *Engine) Run(ctx context.Context, profileText, location string) (*domain.RunResult, error) {
	now := e.Now()
	run := domain.PipelineRun{StartedAt: now}

	terms := match.DeriveTerms(profileText)
	terms = append(terms, e.ExtraTerms...)
	q := source.Query{Terms: terms, Location: location, MaxPages: e.MaxPages}

	raw, perSource, fallbackUsed := e.Gatherer.Gather(ctx, q)
	run.RawCount = len(raw)
	run.PerSource = perSource
	run.FallbackUsed = fallbackUsed
	e.Log.Info("gather done",
		zap.Int("raw", len(raw)),
		zap.Bool("fallback", fallbackUsed))

	deduped := Normalize(raw, now)
	run.DedupedCount = len(deduped)
	e.Log.Info("normalize done", zap.Int("deduped", len(deduped)))

	filtered := e.Filter.Apply(deduped, location, now)
	run.FilteredCount = len(filtered)

	scored := make([]domain.ScoredPosting, 0, len(filtered))
	for _, p := range filtered {
		res := match.Score(p.Title+"\n"+p.Description, profileText)
		scored = append(scored, domain.ScoredPosting{
			CanonicalPosting: p,
			MatchScore:       res.MatchScore,
			FoundKeywords:    res.Found,
			MissingKeywords:  res.Missing,
			CriticalMissing:  res.CriticalMissing,
			RolePenalty:      res.RolePenalty,
			RoleReason:       res.RoleReason,
		})
	}
	run.ScoredCount = len(scored)
	e.Log.Info("scoring done", zap.Int("scored", len(scored)))

	verified := e.Verifier.Verify(ctx, scored)
	run.VerifiedCount = len(verified)

	sorted := rank.Sort(verified)
	e.markNew(ctx, sorted)

	high, good, fair := rank.Partition(sorted)

	run.FinalCount = len(sorted)
	run.ScoreHistogram = rank.Histogram(sorted)
	run.TopConcepts = rank.TopConcepts(high, 10)
	run.FinishedAt = e.Now()

	if err := e.Store.AppendRun(ctx, run); err != nil {
		e.Log.Warn("run history not recorded", zap.Error(err))
	}

	return &domain.RunResult{
		High: high,
		Good: good,
		Fair: fair,
		All:  sorted,
		Run:  run,
	}, nil
}

// markNew flags postings never seen in a previous run. A store failure
// leaves every posting unflagged rather than failing the run.
func (e *Engine) markNew(ctx context.Context, postings []domain.VerifiedPosting) {
	isNew, err := e.Store.MarkSeen(ctx, postings)
	if err != nil {
		e.Log.Warn("seen set not updated", zap.Error(err))
		return
	}
	for i := range postings {
		key := postings[i].CanonicalURL
		if key == "" {
			key = postings[i].ID
		}
		postings[i].IsNew = isNew[key]
	}
}
