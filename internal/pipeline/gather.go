package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/match"
	"jobscout-engine/internal/source"
)

type result struct {
	name     string
	postings []domain.RawPosting
}

// Gatherer fans out to every enabled adapter concurrently. Adapters are
// best-effort: a failure or timeout contributes zero postings and is logged,
// never aborting the siblings.
type Gatherer struct {
	Adapters       []source.Adapter
	AdapterTimeout time.Duration
	PhaseTimeout   time.Duration

	// Fallback injection thresholds. Fallback is a function so tests can
	// substitute their own fixed set.
	FallbackEnabled bool
	MinRaw          int
	MinPromising    int
	Fallback        func(now time.Time) []domain.RawPosting

	Log *zap.Logger
	Now func() time.Time
}

// Gather runs all adapters and returns the combined raw postings, the count
// contributed per source name, and whether fallback postings were injected.
func (g *Gatherer) Gather(ctx context.Context, q source.Query) ([]domain.RawPosting, map[string]int, bool) {
	phaseCtx, cancel := context.WithTimeout(ctx, g.PhaseTimeout)
	defer cancel()

	var eg errgroup.Group
	results := make(chan result, len(g.Adapters))

	for _, a := range g.Adapters {
		a := a
		eg.Go(func() error {
			actx, cancel := context.WithTimeout(phaseCtx, g.AdapterTimeout)
			defer cancel()

			g.Log.Info("source running", zap.String("source", a.Name()))
			postings, err := a.Fetch(actx, q)
			if err != nil {
				// best-effort: don't cancel siblings
				g.Log.Warn("source failed",
					zap.String("source", a.Name()),
					zap.Int("partial", len(postings)),
					zap.Error(err))
			}
			results <- result{name: a.Name(), postings: postings}
			return nil
		})
	}

	_ = eg.Wait()
	close(results)

	var raw []domain.RawPosting
	perSource := map[string]int{}
	for res := range results {
		raw = append(raw, res.postings...)
		perSource[res.name] += len(res.postings)
	}

	fallbackUsed := false
	if g.FallbackEnabled && g.Fallback != nil && g.lowYield(raw) {
		injected := g.Fallback(g.Now())
		raw = append(raw, injected...)
		perSource[string(domain.SourceCurated)] += len(injected)
		fallbackUsed = true
		g.Log.Warn("low yield, injecting curated fallback postings",
			zap.Int("raw", len(raw)-len(injected)),
			zap.Int("injected", len(injected)))
	}

	return raw, perSource, fallbackUsed
}

// lowYield fires when the run produced too few postings overall, or too few
// that mention any high-weight concept.
func (g *Gatherer) lowYield(raw []domain.RawPosting) bool {
	if len(raw) < g.MinRaw {
		return true
	}
	promising := 0
	for _, p := range raw {
		if match.Promising(p.Title + " " + p.Description) {
			promising++
		}
	}
	return promising < g.MinPromising
}
