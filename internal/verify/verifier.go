package verify

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/logger"
	"jobscout-engine/internal/source/util"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxBodyBytes = 2 << 20

// descSelectors map a source to the markup that holds the real description
// on its detail page.
var descSelectors = map[string]string{
	"linkedin": "div.show-more-less-html__markup",
	"dice":     "#jobDescription",
}

type Config struct {
	MaxPerRun      int
	Timeout        time.Duration
	Delay          time.Duration
	MinDescription int
}

// Verifier resolves posting URLs one at a time with a fixed inter-request
// delay. Targets are third-party sites that must not be hit aggressively.
type Verifier struct {
	cfg     Config
	hc      *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	now     func() time.Time
}

func New(cfg Config, log *zap.Logger) *Verifier {
	if cfg.MaxPerRun <= 0 {
		cfg.MaxPerRun = 25
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 6 * time.Second
	}
	if cfg.MinDescription <= 0 {
		cfg.MinDescription = 200
	}

	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.Delay > 0 {
		lim = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	return &Verifier{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: lim,
		log:     log,
		now:     time.Now,
	}
}

// Verify checks the top-scoring slice of postings and returns survivors plus
// the unverified tail. Proven-dead links are dropped; timeouts and transport
// errors keep the posting with linkStatus 0.
func (v *Verifier) Verify(ctx context.Context, scored []domain.ScoredPosting) []domain.VerifiedPosting {
	ordered := append([]domain.ScoredPosting(nil), scored...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MatchScore > ordered[j].MatchScore
	})

	n := len(ordered)
	if n > v.cfg.MaxPerRun {
		n = v.cfg.MaxPerRun
	}

	out := make([]domain.VerifiedPosting, 0, len(ordered))
	dropped := 0

	for i, p := range ordered[:n] {
		select {
		case <-ctx.Done():
			// abandoned postings join the unverified tail
			out = append(out, unverified(ordered[i:])...)
			return out
		default:
		}

		vp, keep := v.verifyOne(ctx, p)
		if !keep {
			dropped++
			continue
		}
		out = append(out, vp)
	}

	// the tail beyond the per-run cap is kept unverified
	out = append(out, unverified(ordered[n:])...)

	v.log.Info("link verification done",
		zap.Int("attempted", n),
		zap.Int("dropped", dropped),
		zap.Int("unverified_tail", len(ordered)-n))
	return out
}

func (v *Verifier) verifyOne(ctx context.Context, p domain.ScoredPosting) (domain.VerifiedPosting, bool) {
	vp := domain.VerifiedPosting{ScoredPosting: p}

	if p.Source == domain.SourceCurated || isAssumedValid(p.URL) {
		vp.LinkStatus = http.StatusOK
		vp.VerifiedAt = v.now()
		return vp, true
	}

	if isTrackerURL(p.URL) {
		v.log.Debug("tracker url dropped", zap.String("url", p.URL))
		return vp, false
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return vp, true // keep unverified on cancellation
	}

	reqCtx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.URL, nil)
	if err != nil {
		v.log.Debug("bad url dropped", zap.String("url", p.URL), zap.Error(err))
		return vp, false
	}
	req.Header.Set("User-Agent", browserUA)

	res, err := v.hc.Do(req)
	if err != nil {
		// network flakiness is not proof of a dead link
		v.log.Debug("verification inconclusive, keeping unverified",
			zap.String("url", p.URL), zap.Error(err))
		return vp, true
	}
	defer res.Body.Close()

	finalURL := res.Request.URL.String()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		v.log.Debug("dead link dropped",
			zap.String("url", p.URL),
			zap.Int("status", res.StatusCode))
		return vp, false
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return vp, true
	}
	html := string(body)

	if isSoft404(html, finalURL) {
		v.log.Debug("soft 404 dropped", zap.String("url", finalURL))
		return vp, false
	}
	if isShellPage(string(p.Source), html, finalURL) {
		v.log.Debug("shell page dropped",
			zap.String("source", string(p.Source)),
			zap.String("url", finalURL))
		return vp, false
	}

	vp.RequiresLogin = requiresLogin(finalURL)
	vp.LinkStatus = res.StatusCode
	vp.VerifiedAt = v.now()

	if desc := v.extractDescription(string(p.Source), html); desc != "" {
		vp.Description = desc
		v.log.Debug("description refreshed from detail page",
			zap.String("url", finalURL),
			zap.String("snippet", logger.TruncateForLog(desc, 120)))
	}
	if len(vp.Description) < v.cfg.MinDescription {
		// a short or missing body is untrustworthy content
		v.log.Debug("thin detail page dropped",
			zap.String("url", finalURL),
			zap.Int("description_len", len(vp.Description)))
		return vp, false
	}

	return vp, true
}

func (v *Verifier) extractDescription(source, html string) string {
	sel, ok := descSelectors[source]
	if !ok {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return util.CleanText(doc.Find(sel).First().Text())
}

func unverified(tail []domain.ScoredPosting) []domain.VerifiedPosting {
	out := make([]domain.VerifiedPosting, 0, len(tail))
	for _, p := range tail {
		out = append(out, domain.VerifiedPosting{ScoredPosting: p})
	}
	return out
}
