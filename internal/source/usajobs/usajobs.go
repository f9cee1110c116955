package usajobs

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

const defaultBaseURL = "https://data.usajobs.gov"

type Config struct {
	APIKey  string
	Email   string // sent as User-Agent per the API terms
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
	return &Adapter{
		cfg: cfg,
		hc:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (a *Adapter) Name() string { return string(domain.SourceUSAJobs) }

func (a *Adapter) Fetch(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	if a.cfg.APIKey == "" || a.cfg.Email == "" {
		return nil, fmt.Errorf("usajobs: credentials not configured")
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

func (a *Adapter) search(ctx context.Context, keyword, location string, page int) ([]domain.RawPosting, error) {
	qs := url.Values{}
	qs.Set("Keyword", keyword)
	if location != "" {
		qs.Set("LocationName", location)
	}
	qs.Set("ResultsPerPage", "50")
	qs.Set("Page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+"/api/search?"+qs.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.cfg.Email)
	req.Header.Set("Authorization-Key", a.cfg.APIKey)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usajobs search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("usajobs search status %d", res.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("usajobs decode: %w", err)
	}

	var out []domain.RawPosting
	for _, item := range body.SearchResult.SearchResultItems {
		d := item.MatchedObjectDescriptor

		desc := d.UserArea.Details.JobSummary
		if desc == "" {
			desc = d.QualificationSummary
		}

		posted, _ := time.Parse("2006-01-02", d.PublicationStartDate)

		remote := false
		for _, t := range d.PositionOfferingType {
			if t.Name == "Telework" || t.Name == "Remote" {
				remote = true
			}
		}

		out = append(out, domain.RawPosting{
			ID:          d.PositionID,
			Title:       util.CleanText(d.PositionTitle),
			Company:     util.CleanText(d.OrganizationName),
			Location:    util.NormalizeLocation(d.PositionLocationDisplay),
			URL:         d.PositionURI,
			Source:      domain.SourceUSAJobs,
			PostedAt:    posted,
			Description: util.CleanText(desc),
			Salary:      formatSalary(d.PositionRemuneration),
			Remote:      remote,
		})
	}
	return out, nil
}

type searchResponse struct {
	SearchResult struct {
		SearchResultItems []struct {
			MatchedObjectDescriptor descriptor `json:"MatchedObjectDescriptor"`
		} `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

type descriptor struct {
	PositionID              string         `json:"PositionID"`
	PositionTitle           string         `json:"PositionTitle"`
	OrganizationName        string         `json:"OrganizationName"`
	PositionLocationDisplay string         `json:"PositionLocationDisplay"`
	PositionURI             string         `json:"PositionURI"`
	PublicationStartDate    string         `json:"PublicationStartDate"`
	QualificationSummary    string         `json:"QualificationSummary"`
	PositionRemuneration    []remuneration `json:"PositionRemuneration"`
	PositionOfferingType    []struct {
		Name string `json:"Name"`
	} `json:"PositionOfferingType"`
	UserArea struct {
		Details struct {
			JobSummary string `json:"JobSummary"`
		} `json:"Details"`
	} `json:"UserArea"`
}

type remuneration struct {
	MinimumRange string `json:"MinimumRange"`
	MaximumRange string `json:"MaximumRange"`
}

func formatSalary(rem []remuneration) string {
	if len(rem) == 0 {
		return ""
	}
	min, max := rem[0].MinimumRange, rem[0].MaximumRange
	if min == "" && max == "" {
		return ""
	}
	if min == max || max == "" {
		return "$" + min
	}
	return fmt.Sprintf("$%s - $%s", min, max)
}
