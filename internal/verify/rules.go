package verify

import "strings"

// trackerMarkers identify click trackers, generic search pages, and ATS hosts
// that never resolve to a stable job detail page. Matched against the
// lowercased URL before any network call.
var trackerMarkers = []string{
	"/rc/clk",
	"/pagead/clk",
	"trackingid=",
	"currentjobid=",
	"/jobs/search/",
	"taleo.net",
	"workday.com",
	"icims.com",
	"careers.microsoft.com",
	"/errorpages/",
	"/errorpage",
	"/404.html",
}

// assumedValidHosts are CORS-hostile or otherwise unverifiable; their links
// are short-circuited to status 200 without a request.
var assumedValidHosts = []string{
	"usajobs.gov",
}

// soft404URLMarkers reject on the final URL path even when the status is 200.
var soft404URLMarkers = []string{
	"/404",
	"errorpage",
	"notfound",
}

// soft404Phrases are human-readable signals of a branded error page.
var soft404Phrases = []string{
	"page not found",
	"job not found",
	"no longer available",
	"position has been filled",
	"not accepting applications",
	"job you are looking for has expired",
	"this job is no longer available",
	"the position you're looking for",
	"job has expired",
	"job posting has been removed",
	"sorry, this job is no longer available",
	"we couldn't find the job you're looking for",
	"the job you requested is not available",
	"this position is no longer open",
	"careers home",
	"back to careers",
	"search all jobs",
	"explore opportunities",
	"page not available",
	"resource not found",
	"url not found",
	"invalid job id",
	"job id not found",
	"position not found",
}

// shellMarkers: a genuine detail page for the source must contain at least
// one of these fragments, otherwise it is a landing/search shell.
var shellMarkers = map[string][]string{
	"linkedin": {"show-more-less-html__markup", "jobs/view/"},
	"dice":     {"jobdescription", "job-detail"},
}

// loginMarkers flag a login wall from the redirect-target path. The posting
// is kept, only marked.
var loginMarkers = []string{
	"/login",
	"/checkpoint",
	"authwall",
	"signin",
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func isTrackerURL(u string) bool {
	return containsAny(strings.ToLower(u), trackerMarkers)
}

func isAssumedValid(u string) bool {
	return containsAny(strings.ToLower(u), assumedValidHosts)
}

func isSoft404(html, finalURL string) bool {
	if containsAny(strings.ToLower(finalURL), soft404URLMarkers) {
		return true
	}
	return containsAny(strings.ToLower(html), soft404Phrases)
}

// isShellPage reports whether the page lacks every detail-page marker for
// the source. Sources without markers are never treated as shells.
func isShellPage(source, html, finalURL string) bool {
	markers, ok := shellMarkers[source]
	if !ok {
		return false
	}
	blob := strings.ToLower(html) + " " + strings.ToLower(finalURL)
	return !containsAny(blob, markers)
}

func requiresLogin(finalURL string) bool {
	return containsAny(strings.ToLower(finalURL), loginMarkers)
}
