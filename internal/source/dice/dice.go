package dice

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
	defaultBaseURL = "https://www.dice.com"
	browserUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

type Adapter struct {
	baseURL string
	hc      *http.Client
	limiter *util.HostLimiter
}

type Option func(*Adapter)

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

func (a *Adapter) Name() string { return string(domain.SourceDice) }

func (a *Adapter) Fetch(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	keywords := strings.Join(q.Terms, " ")

	var out []domain.RawPosting
	seen := map[string]bool{}

	for page := 1; page <= q.MaxPages; page++ {
		cards, err := a.fetchPage(ctx, keywords, q.Location, page)
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

func (a *Adapter) fetchPage(ctx context.Context, keywords, location string, page int) ([]domain.RawPosting, error) {
	if err := a.limiter.WaitURL(ctx, a.baseURL); err != nil {
		return nil, err
	}

	qs := url.Values{}
	qs.Set("q", keywords)
	if location != "" {
		qs.Set("location", location)
	}
	qs.Set("radius", "30")
	qs.Set("radiusUnit", "mi")
	qs.Set("page", strconv.Itoa(page))
	qs.Set("pageSize", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/jobs?"+qs.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dice search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("dice search status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("dice parse html: %w", err)
	}

	var out []domain.RawPosting
	doc.Find(`div[data-cy="card-summary"]`).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(`a[data-cy="card-title-link"]`).First()
		title := util.CleanText(link.Text())
		company := util.CleanText(card.Find(`a[data-cy="card-company"]`).First().Text())
		loc := util.NormalizeLocation(card.Find(`span[data-cy="card-location"]`).First().Text())

		href, _ := link.Attr("href")
		jobID := strings.TrimPrefix(strings.SplitN(href, "?", 2)[0], "/job-detail/")
		if jobID == "" || jobID == href || title == "" || company == "" {
			return
		}

		out = append(out, domain.RawPosting{
			ID:       "dice-" + jobID,
			Title:    title,
			Company:  company,
			Location: loc,
			URL:      "https://www.dice.com/job-detail/" + jobID,
			Source:   domain.SourceDice,
			Remote:   util.InferRemote(loc, title, ""),
		})
	})
	return out, nil
}
