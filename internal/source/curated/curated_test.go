package curated

import (
	"testing"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/match"
)

func TestPostings(t *testing.T) {
	now := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	got := Postings(now)

	if len(got) == 0 {
		t.Fatal("curated set is empty")
	}

	seen := map[string]bool{}
	for _, p := range got {
		if p.Source != domain.SourceCurated {
			t.Fatalf("%s: Source = %q", p.ID, p.Source)
		}
		if p.ID == "" || p.Title == "" || p.URL == "" || p.Description == "" {
			t.Fatalf("incomplete curated posting: %+v", p)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate curated id %q", p.ID)
		}
		seen[p.ID] = true

		if p.PostedAt.After(now) {
			t.Fatalf("%s: posted in the future", p.ID)
		}
		// every entry must clear the bar that triggers the injection
		if !match.Promising(p.Title + " " + p.Description) {
			t.Fatalf("%s: not promising", p.ID)
		}
	}
}
