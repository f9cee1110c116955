package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://api.adzuna.com"

type Config struct {
	AppID   string
	AppKey  string
	Country string // two-letter code, defaults to "us"
	BaseURL string // override for tests
}

type Adapter struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	return &Adapter{
		cfg: cfg,
		hc:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (a *Adapter) Name() string { return string(domain.SourceAdzuna) }

func (a *Adapter) Fetch(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: credentials not configured")
	}

	var out []domain.RawPosting
	seen := map[string]bool{}

	for _, term := range q.Terms {
		for page := 1; page <= q.MaxPages; page++ {
			items, err := a.search(ctx, term, q.Location, page)
			if err != nil {
				return out, err
			}
			if len(items) == 0 {
				break
			}
			for _, p := range items {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (a *Adapter) search(ctx context.Context, what, where string, page int) ([]domain.RawPosting, error) {
	qs := url.Values{}
	qs.Set("app_id", a.cfg.AppID)
	qs.Set("app_key", a.cfg.AppKey)
	qs.Set("what", what)
	if where != "" {
		qs.Set("where", where)
	}
	qs.Set("results_per_page", "50")
	qs.Set("sort_by", "date")

	endpoint := fmt.Sprintf("%s/v1/api/jobs/%s/search/%d?%s", a.cfg.BaseURL, a.cfg.Country, page, qs.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("adzuna search status %d", res.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	var out []domain.RawPosting
	for _, r := range body.Results {
		posted, _ := time.Parse(time.RFC3339, r.Created)

		out = append(out, domain.RawPosting{
			ID:          r.ID,
			Title:       util.CleanText(r.Title),
			Company:     util.CleanText(r.Company.DisplayName),
			Location:    util.NormalizeLocation(r.Location.DisplayName),
			URL:         r.RedirectURL,
			Source:      domain.SourceAdzuna,
			PostedAt:    posted,
			Description: util.CleanText(r.Description),
			Salary:      formatSalary(r.SalaryMin, r.SalaryMax),
			Remote:      util.InferRemote(r.Location.DisplayName, r.Title, r.Description),
		})
	}
	return out, nil
}

type searchResponse struct {
	Results []struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Created     string  `json:"created"`
		RedirectURL string  `json:"redirect_url"`
		SalaryMin   float64 `json:"salary_min"`
		SalaryMax   float64 `json:"salary_max"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
	} `json:"results"`
}

func formatSalary(min, max float64) string {
	if min == 0 && max == 0 {
		return ""
	}
	if max == 0 || min == max {
		return "$" + strconv.Itoa(int(min))
	}
	return fmt.Sprintf("$%d - $%d", int(min), int(max))
}
