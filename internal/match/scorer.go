package match

import (
	"math"
	"strings"
)

// Result is the outcome of scoring one posting against a profile.
type Result struct {
	MatchScore      int // raw score minus role penalty, floored at 0
	RawScore        int
	Found           []string
	Missing         []string
	CriticalMissing []string
	RolePenalty     int
	RoleReason      string
}

// Score computes the weighted keyword match between a posting and a profile.
// Pure function of its inputs; no I/O.
func Score(postingText, profileText string) Result {
	posting := strings.ToLower(postingText)
	profile := strings.ToLower(profileText)

	var res Result
	totalWeight := 0
	matchedWeight := 0

	for i, c := range taxonomy {
		if !conceptIn(i, posting) {
			continue
		}
		totalWeight += c.Weight

		if conceptIn(i, profile) {
			matchedWeight += c.Weight
			res.Found = append(res.Found, c.Canonical)
		} else {
			res.Missing = append(res.Missing, c.Canonical)
			if c.Weight >= 4 {
				res.CriticalMissing = append(res.CriticalMissing, c.Canonical)
			}
		}
	}

	if totalWeight > 0 {
		res.RawScore = int(math.Round(100 * float64(matchedWeight) / float64(totalWeight)))
	}

	cls := classifyRole(extractTitle(postingText), posting)
	res.RolePenalty, res.RoleReason = assessRoleMatch(cls, profile)

	res.MatchScore = res.RawScore - res.RolePenalty
	if res.MatchScore < 0 {
		res.MatchScore = 0
	}
	return res
}

// Promising is the cheap pre-score heuristic used to judge run yield: does
// the posting mention any high-weight concept at all.
func Promising(postingText string) bool {
	posting := strings.ToLower(postingText)
	for i, c := range taxonomy {
		if c.Weight < 4 {
			continue
		}
		if conceptIn(i, posting) {
			return true
		}
	}
	return false
}

// extractTitle pulls a plausible title line out of free-form posting text.
// Callers that already know the title should prepend it to the text.
func extractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
