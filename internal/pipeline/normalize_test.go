package pipeline

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobscout-engine/internal/domain"
)

var normalizeNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func rawPosting(id, url, desc string) domain.RawPosting {
	return domain.RawPosting{
		ID:          id,
		Title:       "GRC Analyst",
		Company:     "Acme Federal",
		Location:    "Remote",
		URL:         url,
		Source:      domain.SourceLinkedIn,
		PostedAt:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Description: desc,
	}
}

func TestNormalizeDedupeKeepsLongestDescription(t *testing.T) {
	short := strings.Repeat("x", 40)
	long := strings.Repeat("y", 400)

	raw := []domain.RawPosting{
		rawPosting("a", "https://example.com/jobs/view/1?utm=alert", short),
		rawPosting("b", "https://Example.com/jobs/view/1/", long),
	}

	got := Normalize(raw, normalizeNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 posting after dedupe, got %d", len(got))
	}
	if got[0].Description != long {
		t.Fatalf("dedupe kept the shorter description (%d chars)", len(got[0].Description))
	}
	if got[0].CanonicalURL != "https://example.com/jobs/view/1" {
		t.Fatalf("unexpected canonical url %q", got[0].CanonicalURL)
	}
}

func TestNormalizePreservesFirstAppearanceOrder(t *testing.T) {
	raw := []domain.RawPosting{
		rawPosting("a", "https://example.com/a", "one"),
		rawPosting("b", "https://example.com/b", "two"),
		rawPosting("c", "https://example.com/a", "one again"),
		rawPosting("d", "https://example.com/c", "three"),
	}
	raw[1].Title = "ISSO"
	raw[3].Title = "Security Engineer"

	got := Normalize(raw, normalizeNow)
	if len(got) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(got))
	}
	wantURLs := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	for i, u := range wantURLs {
		if got[i].CanonicalURL != u {
			t.Fatalf("position %d: got %q, want %q", i, got[i].CanonicalURL, u)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []domain.RawPosting{
		rawPosting("a", "https://example.com/jobs/1?x=1", "first description"),
		rawPosting("b", "https://example.com/jobs/1", "first description longer"),
		rawPosting("c", "https://example.com/jobs/2", "second"),
	}
	raw[2].Title = "ISSO"

	once := Normalize(raw, normalizeNow)

	again := make([]domain.RawPosting, len(once))
	for i, c := range once {
		again[i] = c.RawPosting
	}
	twice := Normalize(again, normalizeNow)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed count: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].CanonicalURL != twice[i].CanonicalURL {
			t.Fatalf("second pass changed order at %d", i)
		}
	}
}

func TestCollapseRepostsWindow(t *testing.T) {
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	within := rawPosting("a", "https://example.com/a", "short")
	within.PostedAt = base
	repost := rawPosting("b", "https://example.com/b", "much longer description here")
	repost.PostedAt = base.Add(2 * 24 * time.Hour)
	distinct := rawPosting("c", "https://example.com/c", "another opening")
	distinct.PostedAt = base.Add(10 * 24 * time.Hour)

	got := Normalize([]domain.RawPosting{within, repost, distinct}, normalizeNow)
	if len(got) != 2 {
		t.Fatalf("expected repost collapsed and distinct kept, got %d postings", len(got))
	}
	if got[0].Description != "much longer description here" {
		t.Fatalf("collapse kept wrong record: %q", got[0].Description)
	}
}

func TestNormalizeMissingURLPassesThrough(t *testing.T) {
	a := rawPosting("a", "", "no link yet")
	b := rawPosting("b", "", "also no link")
	b.Title = "ISSO"

	got := Normalize([]domain.RawPosting{a, b}, normalizeNow)
	if len(got) != 2 {
		t.Fatalf("postings without URLs must not collide, got %d", len(got))
	}
}

func TestNormalizeDefaultsMissingPostedDate(t *testing.T) {
	undated := rawPosting("a", "https://www.dice.com/job-detail/abc-123", "GRC and compliance work")
	undated.Source = domain.SourceDice
	undated.PostedAt = time.Time{}

	got := Normalize([]domain.RawPosting{undated}, normalizeNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(got))
	}
	if !got[0].PostedAt.Equal(normalizeNow) {
		t.Fatalf("missing posted date not stamped with discovery time: %v", got[0].PostedAt)
	}

	f := NewFilter(14, nil, "Remote", zap.NewNop())
	kept := f.Apply(got, "", normalizeNow)
	if len(kept) != 1 {
		t.Fatalf("date-unknown posting dropped by recency rule: got %d survivors, want 1", len(kept))
	}
}
