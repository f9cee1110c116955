package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobscout-engine/internal/domain"
)

func openTestStore(t *testing.T, runHistory int) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "jobscout.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st, err := New(db, runHistory)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

func seenPosting(id, canonicalURL string) domain.VerifiedPosting {
	return domain.VerifiedPosting{
		ScoredPosting: domain.ScoredPosting{
			CanonicalPosting: domain.CanonicalPosting{
				RawPosting:   domain.RawPosting{ID: id, Source: domain.SourceLinkedIn},
				CanonicalURL: canonicalURL,
			},
		},
	}
}

func TestMarkSeenFirstAndRepeat(t *testing.T) {
	st := openTestStore(t, 10)
	ctx := context.Background()

	postings := []domain.VerifiedPosting{
		seenPosting("a", "https://example.com/jobs/1"),
		seenPosting("b", "https://example.com/jobs/2"),
	}

	first, err := st.MarkSeen(ctx, postings)
	if err != nil {
		t.Fatalf("first MarkSeen: %v", err)
	}
	for key, isNew := range first {
		if !isNew {
			t.Fatalf("first sighting of %q not flagged new", key)
		}
	}

	second, err := st.MarkSeen(ctx, postings)
	if err != nil {
		t.Fatalf("second MarkSeen: %v", err)
	}
	for key, isNew := range second {
		if isNew {
			t.Fatalf("repeat sighting of %q flagged new", key)
		}
	}
}

func TestMarkSeenFallsBackToID(t *testing.T) {
	st := openTestStore(t, 10)
	ctx := context.Background()

	noURL := seenPosting("inbox-42", "")
	got, err := st.MarkSeen(ctx, []domain.VerifiedPosting{noURL})
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if !got["inbox-42"] {
		t.Fatalf("posting without canonical url not keyed by id: %v", got)
	}
}

func TestRunHistoryBounded(t *testing.T) {
	st := openTestStore(t, 3)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := domain.PipelineRun{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			RawCount:  i,
		}
		if err := st.AppendRun(ctx, run); err != nil {
			t.Fatalf("append run %d: %v", i, err)
		}
	}

	got, err := st.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("history not trimmed to bound, got %d runs", len(got))
	}

	// Newest first.
	wantRaw := []int{4, 3, 2}
	for i, run := range got {
		if run.RawCount != wantRaw[i] {
			t.Fatalf("history[%d].RawCount = %d, want %d", i, run.RawCount, wantRaw[i])
		}
	}
}

func TestHistoryRoundTripsRunRecord(t *testing.T) {
	st := openTestStore(t, 10)
	ctx := context.Background()

	run := domain.PipelineRun{
		StartedAt:      time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2026, 8, 25, 9, 2, 0, 0, time.UTC),
		RawCount:       31,
		DedupedCount:   28,
		FilteredCount:  19,
		ScoredCount:    19,
		VerifiedCount:  15,
		FinalCount:     15,
		PerSource:      map[string]int{"usajobs": 12, "linkedin": 19},
		ScoreHistogram: map[string]int{domain.BucketHigh: 2, domain.BucketGood: 5},
		TopConcepts:    []string{"fedramp", "rmf"},
		FallbackUsed:   true,
	}
	if err := st.AppendRun(ctx, run); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := st.History(ctx, 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run, got %d", len(got))
	}

	r := got[0]
	if r.RawCount != 31 || r.FinalCount != 15 || !r.FallbackUsed {
		t.Fatalf("run record mangled: %+v", r)
	}
	if r.PerSource["linkedin"] != 19 {
		t.Fatalf("per-source counts mangled: %v", r.PerSource)
	}
}

func TestOpenLocksDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobscout.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("second open of a locked database must fail")
	} else if !strings.Contains(err.Error(), "in use") {
		t.Fatalf("unexpected error: %v", err)
	}
}
