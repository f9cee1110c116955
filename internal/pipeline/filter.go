package pipeline

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"jobscout-engine/internal/domain"
)

var defaultTopicTerms = []string{
	"security", "cybersecurity", "grc", "governance", "risk", "compliance",
	"information security", "it security", "network security", "application security",
	"penetration testing", "vulnerability", "threat", "audit", "assessment",
	"nist", "iso", "soc", "pci", "hipaa", "fedramp", "fisma", "rmf",
}

// Filter is the cheap rule-based triage between normalization and scoring.
// Rules run in a fixed order and the survivor count is logged after each.
type Filter struct {
	RecencyDays int
	TopicTerms  []string
	Location    string

	log *zap.Logger
}

func NewFilter(recencyDays int, topicTerms []string, location string, log *zap.Logger) *Filter {
	if len(topicTerms) == 0 {
		topicTerms = defaultTopicTerms
	}
	return &Filter{
		RecencyDays: recencyDays,
		TopicTerms:  topicTerms,
		Location:    location,
		log:         log,
	}
}

// Apply runs the rules over in. A non-empty location overrides the
// configured one for this call, so per-run overrides reach the keyword
// table and not just the source queries.
func (f *Filter) Apply(in []domain.CanonicalPosting, location string, now time.Time) []domain.CanonicalPosting {
	if location == "" {
		location = f.Location
	}
	initial := len(in)

	out := f.byLocation(in, location)
	f.log.Info("location filter",
		zap.Int("initial", initial),
		zap.Int("dropped", initial-len(out)),
		zap.Int("left", len(out)))

	before := len(out)
	out = f.byRecency(out, now)
	f.log.Info("recency filter",
		zap.Int("window_days", f.RecencyDays),
		zap.Int("initial", before),
		zap.Int("dropped", before-len(out)),
		zap.Int("left", len(out)))

	before = len(out)
	out = f.byTopic(out)
	f.log.Info("topic filter",
		zap.Int("initial", before),
		zap.Int("dropped", before-len(out)),
		zap.Int("left", len(out)))

	return out
}

// byLocation keeps federal postings unconditionally; everything else must be
// remote, match a location keyword, or carry no location at all.
func (f *Filter) byLocation(in []domain.CanonicalPosting, location string) []domain.CanonicalPosting {
	keywords := locationKeywords(location)

	out := in[:0:0]
	for _, p := range in {
		if p.Source == domain.SourceUSAJobs {
			out = append(out, p)
			continue
		}

		loc := strings.ToLower(p.Location)
		if loc == "" || strings.Contains(loc, "remote") {
			out = append(out, p)
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(loc, kw) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (f *Filter) byRecency(in []domain.CanonicalPosting, now time.Time) []domain.CanonicalPosting {
	cutoff := now.AddDate(0, 0, -f.RecencyDays)

	out := in[:0:0]
	for _, p := range in {
		if !p.PostedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

func (f *Filter) byTopic(in []domain.CanonicalPosting) []domain.CanonicalPosting {
	out := in[:0:0]
	for _, p := range in {
		blob := strings.ToLower(p.Title + " " + p.Description)
		for _, term := range f.TopicTerms {
			if strings.Contains(blob, term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func locationKeywords(location string) []string {
	l := strings.ToLower(location)
	switch {
	case strings.Contains(l, "washington"):
		return []string{"washington", "dc", "maryland", "virginia", "nova"}
	case strings.Contains(l, "remote"):
		return []string{"remote", "work from home", "wfh", "telecommute"}
	case strings.Contains(l, "new york"):
		return []string{"new york", "nyc", "manhattan", "brooklyn", "queens"}
	case strings.Contains(l, "california"):
		return []string{"california", "ca", "san francisco", "los angeles", "san diego"}
	case strings.Contains(l, "texas"):
		return []string{"texas", "tx", "austin", "dallas", "houston"}
	case l == "":
		return nil
	default:
		return []string{l}
	}
}
