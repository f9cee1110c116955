package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
)

type memStore struct {
	seen    map[string]bool
	runs    []domain.PipelineRun
	failing bool
}

func newMemStore() *memStore {
	return &memStore{seen: map[string]bool{}}
}

func (m *memStore) MarkSeen(ctx context.Context, postings []domain.VerifiedPosting) (map[string]bool, error) {
	if m.failing {
		return nil, errors.New("disk full")
	}
	isNew := map[string]bool{}
	for _, p := range postings {
		key := p.CanonicalURL
		if key == "" {
			key = p.ID
		}
		isNew[key] = !m.seen[key]
		m.seen[key] = true
	}
	return isNew, nil
}

func (m *memStore) AppendRun(ctx context.Context, run domain.PipelineRun) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *memStore) History(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	return m.runs, nil
}

// dropVerifier drops postings whose IDs it was given and passes the rest
// through with a live status.
type dropVerifier struct {
	drop map[string]bool
}

func (d dropVerifier) Verify(ctx context.Context, scored []domain.ScoredPosting) []domain.VerifiedPosting {
	var out []domain.VerifiedPosting
	for _, p := range scored {
		if d.drop[p.ID] {
			continue
		}
		out = append(out, domain.VerifiedPosting{
			ScoredPosting: p,
			LinkStatus:    200,
			VerifiedAt:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

const testProfile = `GRC analyst. FedRAMP authorization packages, SSP authoring, POA&M tracking,
RMF under NIST 800-53, continuous monitoring. CISSP.`

func grcRaw(id string, postedAt time.Time) domain.RawPosting {
	return domain.RawPosting{
		ID:          id,
		Title:       "GRC Analyst",
		Company:     "company-" + id,
		Location:    "Remote",
		URL:         "https://example.com/jobs/" + id,
		Source:      domain.SourceLinkedIn,
		PostedAt:    postedAt,
		Description: "Maintain FedRAMP SSP packages, track POA&M items, run RMF continuous monitoring. " + strings.Repeat("Detail. ", 10),
	}
}

func newTestEngine(adapters []source.Adapter, v Verifier, st Store) *Engine {
	now := func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return &Engine{
		Gatherer: &Gatherer{
			Adapters:       adapters,
			AdapterTimeout: 5 * time.Second,
			PhaseTimeout:   10 * time.Second,
			MinRaw:         1,
			MinPromising:   1,
			Log:            zap.NewNop(),
			Now:            now,
		},
		Filter:   NewFilter(14, nil, "Remote", zap.NewNop()),
		Verifier: v,
		Store:    st,
		MaxPages: 1,
		Log:      zap.NewNop(),
		Now:      now,
	}
}

func TestEngineRunEndToEnd(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	fresh := now.AddDate(0, 0, -2)

	var raw []domain.RawPosting
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		raw = append(raw, grcRaw(id, fresh))
	}
	// Duplicate of "a" under a tracking query string.
	dup := grcRaw("a2", fresh)
	dup.URL = "https://example.com/jobs/a?utm_source=alert"
	dup.Company = "company-a"
	raw = append(raw, dup)
	// Too old to pass the recency rule.
	stale := grcRaw("stale", now.AddDate(0, 0, -30))
	raw = append(raw, stale)
	// Off topic.
	chef := grcRaw("chef", fresh)
	chef.Title = "Sous Chef"
	chef.Description = "Plate appetizers and manage the grill station. " + strings.Repeat("Detail. ", 10)
	raw = append(raw, chef)

	st := newMemStore()
	eng := newTestEngine(
		[]source.Adapter{stubAdapter{name: "linkedin", postings: raw}},
		dropVerifier{drop: map[string]bool{"e": true}},
		st,
	)

	res, err := eng.Run(context.Background(), testProfile, "Remote")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 8 raw, dup collapses, stale and chef filtered, "e" dropped at verify.
	if res.Run.RawCount != 8 {
		t.Fatalf("RawCount = %d, want 8", res.Run.RawCount)
	}
	if res.Run.DedupedCount != 7 {
		t.Fatalf("DedupedCount = %d, want 7", res.Run.DedupedCount)
	}
	if res.Run.FilteredCount != 5 {
		t.Fatalf("FilteredCount = %d, want 5", res.Run.FilteredCount)
	}
	if res.Run.FinalCount != 4 {
		t.Fatalf("FinalCount = %d, want 4", res.Run.FinalCount)
	}
	if len(res.All) != 4 {
		t.Fatalf("len(All) = %d, want 4", len(res.All))
	}

	// Every survivor fully matches the profile, so all land in the top tier.
	if len(res.High) != 4 {
		t.Fatalf("len(High) = %d, want 4 (histogram %v)", len(res.High), res.Run.ScoreHistogram)
	}
	if len(res.Run.TopConcepts) == 0 {
		t.Fatal("TopConcepts empty for a run with top-tier postings")
	}

	for _, p := range res.All {
		if !p.IsNew {
			t.Fatalf("first-run posting %s not flagged new", p.ID)
		}
	}
	if len(st.runs) != 1 {
		t.Fatalf("run record not appended, got %d", len(st.runs))
	}
}

func TestEngineSecondRunClearsNewFlag(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	raw := []domain.RawPosting{grcRaw("a", now.AddDate(0, 0, -1))}

	st := newMemStore()
	eng := newTestEngine(
		[]source.Adapter{stubAdapter{name: "linkedin", postings: raw}},
		dropVerifier{},
		st,
	)

	first, err := eng.Run(context.Background(), testProfile, "Remote")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !first.All[0].IsNew {
		t.Fatal("first sighting not flagged new")
	}

	second, err := eng.Run(context.Background(), testProfile, "Remote")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.All[0].IsNew {
		t.Fatal("repeat sighting still flagged new")
	}
}

func TestEngineStoreFailureIsNotFatal(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	raw := []domain.RawPosting{grcRaw("a", now.AddDate(0, 0, -1))}

	st := newMemStore()
	st.failing = true
	eng := newTestEngine(
		[]source.Adapter{stubAdapter{name: "linkedin", postings: raw}},
		dropVerifier{},
		st,
	)

	res, err := eng.Run(context.Background(), testProfile, "Remote")
	if err != nil {
		t.Fatalf("store failure must not fail the run: %v", err)
	}
	if len(res.All) != 1 {
		t.Fatalf("results lost on store failure, got %d", len(res.All))
	}
	if res.All[0].IsNew {
		t.Fatal("postings must stay unflagged when the seen set is unavailable")
	}
}
