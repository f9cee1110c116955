package inbox

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source/util"
)

// Service recognizes one alert sender and knows how to pull postings out of
// its email template.
type Service struct {
	Name    string
	senders []string
	Parse   func(m message) ([]domain.RawPosting, error)
}

var services = []Service{
	{
		Name:    "linkedin",
		senders: []string{"linkedin.com"},
		Parse:   parseLinkedInAlert,
	},
	{
		Name:    "indeed",
		senders: []string{"indeed.com"},
		Parse:   parseIndeedAlert,
	},
	{
		Name:    "lensa",
		senders: []string{"lensa.com", "lensa.ai"},
		Parse:   parseLensaAlert,
	},
}

func serviceFor(from string) *Service {
	lf := strings.ToLower(from)
	for i := range services {
		for _, s := range services[i].senders {
			if strings.Contains(lf, s) {
				return &services[i]
			}
		}
	}
	return nil
}

var reLinkedInJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

// parseLinkedInAlert merges every anchor pointing at the same job id into one
// posting. Alert cards repeat the link on the logo, the title, and the button.
func parseLinkedInAlert(m message) ([]domain.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody(m.Raw)))
	if err != nil {
		return nil, err
	}

	byID := map[string]*domain.RawPosting{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lh := strings.ToLower(href)
		if !strings.Contains(lh, "linkedin.com") {
			return
		}
		mt := reLinkedInJobID.FindStringSubmatch(href)
		if mt == nil {
			return
		}
		jobID := mt[1]

		p, ok := byID[jobID]
		if !ok {
			p = &domain.RawPosting{
				ID:       "linkedin-" + jobID,
				URL:      "https://www.linkedin.com/jobs/view/" + jobID,
				Source:   domain.SourceInbox,
				PostedAt: m.Date,
			}
			byID[jobID] = p
			order = append(order, jobID)
		}

		if t := util.CleanText(a.Text()); betterTitle(t, p.Title) {
			p.Title = t
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}

		// alert cards render "Company · Location" in a <p>
		card.Find("p").Each(func(_ int, pp *goquery.Selection) {
			t := util.CleanText(pp.Text())
			if p.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				p.Company = strings.TrimSpace(parts[0])
				p.Location = util.NormalizeLocation(parts[1])
			}
		})
	})

	var out []domain.RawPosting
	for _, id := range order {
		p := byID[id]
		if p.Title == "" {
			continue
		}
		p.Remote = util.InferRemote(p.Location, p.Title, "")
		out = append(out, *p)
	}
	return out, nil
}

func parseIndeedAlert(m message) ([]domain.RawPosting, error) {
	return parseCardAlert(m, "indeed.com", "indeed")
}

func parseLensaAlert(m message) ([]domain.RawPosting, error) {
	return parseCardAlert(m, "lensa.", "lensa")
}

// parseCardAlert handles the common alert template: each job is an anchor to
// the service's domain whose card carries title, company, and location text.
func parseCardAlert(m message, hostMarker, idPrefix string) ([]domain.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody(m.Raw)))
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []domain.RawPosting

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(strings.ToLower(href), hostMarker) {
			return
		}

		title := util.CleanText(a.Text())
		if !betterTitle(title, "") {
			return
		}

		key := util.CanonicalizeURL(href)
		if seen[key] {
			return
		}
		seen[key] = true

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}

		var company, location string
		splitFrom := func(sel string) bool {
			found := false
			card.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				t := util.CleanText(s.Text())
				if t == "" || t == title || !strings.Contains(t, " - ") {
					return true
				}
				parts := strings.SplitN(t, " - ", 2)
				company = strings.TrimSpace(parts[0])
				location = util.NormalizeLocation(parts[1])
				found = true
				return false
			})
			return found
		}
		// cells can swallow the whole card text, so inline elements first
		if !splitFrom("p, span") {
			splitFrom("td")
		}

		out = append(out, domain.RawPosting{
			ID:       idPrefix + "-" + key,
			Title:    title,
			Company:  company,
			Location: location,
			URL:      href,
			Source:   domain.SourceInbox,
			PostedAt: m.Date,
			Remote:   util.InferRemote(location, title, ""),
		})
	})
	return out, nil
}

func betterTitle(cand, cur string) bool {
	cand = strings.TrimSpace(cand)
	if cand == "" || len(cand) < 4 {
		return false
	}
	l := strings.ToLower(cand)
	if strings.Contains(l, "view job") || strings.Contains(l, "see all") ||
		strings.Contains(l, "apply now") || strings.Contains(l, "unsubscribe") {
		return false
	}
	return len(cand) > len(cur)
}
