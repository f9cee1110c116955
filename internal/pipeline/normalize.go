package pipeline

import (
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source/util"
)

// repostWindow is how close two postedDates must be for same-company,
// same-title records to count as duplicates rather than re-postings.
const repostWindow = 3 * 24 * time.Hour

// Normalize cleans raw postings and collapses duplicates. Output order
// follows first appearance in the input. Postings without a posted date
// are stamped with now so the recency rule judges them by discovery time.
func Normalize(raw []domain.RawPosting, now time.Time) []domain.CanonicalPosting {
	byURL := map[string]int{}
	var out []domain.CanonicalPosting

	for _, r := range raw {
		c := domain.CanonicalPosting{RawPosting: r}
		c.Title = util.CleanText(r.Title)
		c.Company = util.CleanText(r.Company)
		c.Location = util.NormalizeLocation(r.Location)
		c.Description = strings.TrimSpace(r.Description)
		c.URL = strings.TrimSpace(r.URL)
		c.CanonicalURL = util.CanonicalizeURL(r.URL)
		if c.PostedAt.IsZero() {
			c.PostedAt = now
		}

		if c.CanonicalURL == "" {
			out = append(out, c)
			continue
		}

		if i, ok := byURL[c.CanonicalURL]; ok {
			if len(c.Description) > len(out[i].Description) {
				out[i] = c
			}
			continue
		}
		byURL[c.CanonicalURL] = len(out)
		out = append(out, c)
	}

	return collapseReposts(out)
}

// collapseReposts merges same-company, same-title records whose postedDates
// sit within repostWindow of each other, keeping the longer description.
// Records further apart are kept as distinct re-postings.
func collapseReposts(in []domain.CanonicalPosting) []domain.CanonicalPosting {
	kept := map[string][]int{} // company|title key -> indexes into out
	var out []domain.CanonicalPosting

	for _, c := range in {
		key := strings.ToLower(c.Company) + "|" + strings.ToLower(c.Title)

		merged := false
		for _, i := range kept[key] {
			d := c.PostedAt.Sub(out[i].PostedAt)
			if d < 0 {
				d = -d
			}
			if d <= repostWindow {
				if len(c.Description) > len(out[i].Description) {
					out[i] = c
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		kept[key] = append(kept[key], len(out))
		out = append(out, c)
	}
	return out
}
