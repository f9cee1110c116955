package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus any errors and
// warnings found. Errors make the config unusable; warnings are advisory.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Terms = trimList(out.Search.Terms)
	out.Filters.TopicTerms = trimList(out.Filters.TopicTerms)

	// ---- Validation rules ----

	if out.Search.MaxPages <= 0 {
		res.addErr("search.max_pages must be > 0")
	}

	if out.Gather.AdapterTimeoutSeconds <= 0 {
		res.addErr("gather.adapter_timeout_seconds must be > 0")
	}
	if out.Gather.PhaseTimeoutSeconds <= 0 {
		res.addErr("gather.phase_timeout_seconds must be > 0")
	}
	if out.Gather.PhaseTimeoutSeconds < out.Gather.AdapterTimeoutSeconds {
		res.addWarn("gather.phase_timeout_seconds (%d) is below gather.adapter_timeout_seconds (%d); adapters may be cut off early.",
			out.Gather.PhaseTimeoutSeconds, out.Gather.AdapterTimeoutSeconds)
	}

	if out.Filters.RecencyDays <= 0 {
		res.addErr("filters.recency_days must be > 0")
	}

	if out.Fallback.Enabled {
		if out.Fallback.MinRaw < 0 {
			res.addErr("fallback.min_raw must be >= 0")
		}
		if out.Fallback.MinPromising < 0 {
			res.addErr("fallback.min_promising must be >= 0")
		}
	}

	if out.Verify.Enabled {
		if out.Verify.MaxPerRun <= 0 {
			res.addErr("verify.max_per_run must be > 0 when verify.enabled=true")
		}
		if out.Verify.TimeoutSeconds <= 0 {
			res.addErr("verify.timeout_seconds must be > 0 when verify.enabled=true")
		}
		if out.Verify.DelayMillis < 0 {
			res.addErr("verify.delay_millis must be >= 0")
		} else if out.Verify.DelayMillis < 500 {
			res.addWarn("verify.delay_millis is very low (%d) and may trip rate limits.", out.Verify.DelayMillis)
		}
	}

	if out.Store.RunHistory <= 0 {
		res.addErr("store.run_history must be > 0")
	}

	if out.Watch.IntervalHours <= 0 {
		res.addErr("watch.interval_hours must be > 0")
	}

	// inbox required fields if enabled (password lives in the keychain)
	if out.Inbox.Enabled {
		if strings.TrimSpace(out.Inbox.IMAPHost) == "" {
			res.addErr("inbox.imap_host is required when inbox.enabled=true")
		}
		if out.Inbox.IMAPPort == 0 {
			res.addErr("inbox.imap_port is required when inbox.enabled=true")
		}
		if strings.TrimSpace(out.Inbox.Username) == "" {
			res.addErr("inbox.username is required when inbox.enabled=true")
		}
		if out.Inbox.LookbackDays <= 0 {
			res.addErr("inbox.lookback_days must be > 0 when inbox.enabled=true")
		}
	}

	if out.Sources.USAJobs.Enabled {
		if strings.TrimSpace(out.Sources.USAJobs.APIKey) == "" {
			res.addWarn("sources.usajobs.api_key is empty; the adapter will be skipped.")
		}
		if strings.TrimSpace(out.Sources.USAJobs.Email) == "" {
			res.addWarn("sources.usajobs.email is empty; the adapter will be skipped.")
		}
	}
	if out.Sources.Adzuna.Enabled {
		if strings.TrimSpace(out.Sources.Adzuna.AppID) == "" || strings.TrimSpace(out.Sources.Adzuna.AppKey) == "" {
			res.addWarn("sources.adzuna credentials are incomplete; the adapter will be skipped.")
		}
	}

	if !out.Sources.USAJobs.Enabled && !out.Sources.Adzuna.Enabled &&
		!out.Sources.LinkedIn.Enabled && !out.Sources.Dice.Enabled && !out.Inbox.Enabled {
		res.addWarn("no sources enabled; only curated fallback postings will be produced.")
	}

	return out, res
}
