package rank

import (
	"sort"

	"jobscout-engine/internal/domain"
)

// Sort orders postings by matchScore descending, then postedDate descending.
// Sorting is stable so equal postings keep their pipeline order.
func Sort(in []domain.VerifiedPosting) []domain.VerifiedPosting {
	out := append([]domain.VerifiedPosting(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}

// Bucket returns the presentation tier for a score.
func Bucket(score int) string {
	switch {
	case score >= 90:
		return domain.BucketHigh
	case score >= 75:
		return domain.BucketGood
	case score >= 50:
		return domain.BucketFair
	default:
		return domain.BucketLow
	}
}

// Partition splits sorted postings into the fixed presentation tiers.
func Partition(sorted []domain.VerifiedPosting) (high, good, fair []domain.VerifiedPosting) {
	for _, p := range sorted {
		switch Bucket(p.MatchScore) {
		case domain.BucketHigh:
			high = append(high, p)
		case domain.BucketGood:
			good = append(good, p)
		case domain.BucketFair:
			fair = append(fair, p)
		}
	}
	return high, good, fair
}

// Histogram counts postings per tier.
func Histogram(in []domain.VerifiedPosting) map[string]int {
	h := map[string]int{}
	for _, p := range in {
		h[Bucket(p.MatchScore)]++
	}
	return h
}

// TopConcepts returns the concepts most frequent among top-tier postings,
// most common first, capped at limit. Ties break alphabetically so the
// result is deterministic.
func TopConcepts(high []domain.VerifiedPosting, limit int) []string {
	counts := map[string]int{}
	for _, p := range high {
		for _, kw := range p.FoundKeywords {
			counts[kw]++
		}
	}

	concepts := make([]string, 0, len(counts))
	for kw := range counts {
		concepts = append(concepts, kw)
	}
	sort.Slice(concepts, func(i, j int) bool {
		if counts[concepts[i]] != counts[concepts[j]] {
			return counts[concepts[i]] > counts[concepts[j]]
		}
		return concepts[i] < concepts[j]
	})

	if limit > 0 && len(concepts) > limit {
		concepts = concepts[:limit]
	}
	return concepts
}
