package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const (
	defaultBaseURL = "https://www.linkedin.com"
	browserUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	pageSize       = 25
)

// Adapter scrapes the public guest job search. No login, no API key; the
// endpoint serves plain HTML cards in pages of 25.
type Adapter struct {
	baseURL string
	hc      *http.Client
	limiter *util.HostLimiter
}

type Option func(*Adapter)

// WithBaseURL points the adapter at a different host. Used by tests.
func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = u }
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL: defaultBaseURL,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: util.NewHostLimiter(0.5, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return string(domain.SourceLinkedIn) }

func (a *Adapter) Fetch(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	keywords := strings.Join(q.Terms, " OR ")

	var out []domain.RawPosting
	seen := map[string]bool{}

	for page := 0; page < q.MaxPages; page++ {
		cards, err := a.fetchPage(ctx, keywords, q.Location, page*pageSize)
		if err != nil {
			return out, err
		}
		if len(cards) == 0 {
			break
		}
		for _, p := range cards {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *Adapter) fetchPage(ctx context.Context, keywords, location string, start int) ([]domain.RawPosting, error) {
	if err := a.limiter.WaitURL(ctx, a.baseURL); err != nil {
		return nil, err
	}

	qs := url.Values{}
	qs.Set("keywords", keywords)
	if location != "" {
		qs.Set("location", location)
	}
	qs.Set("start", strconv.Itoa(start))

	endpoint := a.baseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search?" + qs.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("linkedin search status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse html: %w", err)
	}

	var out []domain.RawPosting
	doc.Find("li").Each(func(_ int, card *goquery.Selection) {
		title := util.CleanText(card.Find("h3.base-search-card__title").First().Text())
		company := util.CleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		loc := util.NormalizeLocation(card.Find("span.job-search-card__location").First().Text())

		jobID := extractJobID(card)
		if jobID == "" || title == "" || company == "" {
			return
		}

		posted := time.Time{}
		if dt, ok := card.Find("time").First().Attr("datetime"); ok {
			posted, _ = time.Parse("2006-01-02", dt)
		}

		out = append(out, domain.RawPosting{
			ID:       "linkedin-" + jobID,
			Title:    title,
			Company:  company,
			Location: loc,
			URL:      "https://www.linkedin.com/jobs/view/" + jobID,
			Source:   domain.SourceLinkedIn,
			PostedAt: posted,
			Remote:   util.InferRemote(loc, title, ""),
		})
	})
	return out, nil
}

func extractJobID(card *goquery.Selection) string {
	if id, ok := card.Attr("data-occludable-job-id"); ok && id != "" {
		return id
	}

	// fallback: pull the numeric tail out of the card link
	href, ok := card.Find("a.base-card__full-link").First().Attr("href")
	if !ok {
		return ""
	}
	href = strings.SplitN(href, "?", 2)[0]
	idx := strings.LastIndex(href, "-")
	if idx < 0 || idx == len(href)-1 {
		return ""
	}
	tail := href[idx+1:]
	for _, r := range tail {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return tail
}
