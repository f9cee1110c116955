package rank

import (
	"reflect"
	"testing"
	"time"

	"jobscout-engine/internal/domain"
)

func verified(id string, score int, postedAt time.Time, found ...string) domain.VerifiedPosting {
	return domain.VerifiedPosting{
		ScoredPosting: domain.ScoredPosting{
			CanonicalPosting: domain.CanonicalPosting{
				RawPosting: domain.RawPosting{ID: id, PostedAt: postedAt},
			},
			MatchScore:    score,
			FoundKeywords: found,
		},
	}
}

func TestSortByScoreThenDate(t *testing.T) {
	old := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	in := []domain.VerifiedPosting{
		verified("low", 40, recent),
		verified("tie-old", 85, old),
		verified("top", 95, old),
		verified("tie-new", 85, recent),
	}

	got := Sort(in)
	wantOrder := []string{"top", "tie-new", "tie-old", "low"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}

	// Input must be untouched.
	if in[0].ID != "low" {
		t.Fatal("Sort mutated its input")
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, domain.BucketHigh},
		{90, domain.BucketHigh},
		{89, domain.BucketGood},
		{75, domain.BucketGood},
		{74, domain.BucketFair},
		{50, domain.BucketFair},
		{49, domain.BucketLow},
		{0, domain.BucketLow},
	}
	for _, tc := range cases {
		if got := Bucket(tc.score); got != tc.want {
			t.Fatalf("Bucket(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPartitionAndHistogram(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	in := Sort([]domain.VerifiedPosting{
		verified("a", 95, now),
		verified("b", 91, now),
		verified("c", 80, now),
		verified("d", 60, now),
		verified("e", 10, now),
	})

	high, good, fair := Partition(in)
	if len(high) != 2 || len(good) != 1 || len(fair) != 1 {
		t.Fatalf("partition sizes high=%d good=%d fair=%d", len(high), len(good), len(fair))
	}

	h := Histogram(in)
	if h[domain.BucketHigh] != 2 || h[domain.BucketGood] != 1 || h[domain.BucketFair] != 1 || h[domain.BucketLow] != 1 {
		t.Fatalf("unexpected histogram: %v", h)
	}
}

func TestTopConcepts(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	high := []domain.VerifiedPosting{
		verified("a", 95, now, "fedramp", "rmf", "ssp"),
		verified("b", 93, now, "fedramp", "rmf"),
		verified("c", 91, now, "fedramp", "ato"),
	}

	got := TopConcepts(high, 3)
	want := []string{"fedramp", "rmf", "ato"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopConcepts = %v, want %v", got, want)
	}
}

func TestTopConceptsLimitAndTies(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	high := []domain.VerifiedPosting{
		verified("a", 95, now, "rmf", "ato", "cissp", "fedramp"),
	}

	got := TopConcepts(high, 2)
	// All counts equal, ties break alphabetically.
	want := []string{"ato", "cissp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopConcepts = %v, want %v", got, want)
	}
}
