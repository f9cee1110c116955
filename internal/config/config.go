package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		Location string   `yaml:"location"`
		Terms    []string `yaml:"terms"` // merged with profile-derived terms
		MaxPages int      `yaml:"max_pages"`
	} `yaml:"search"`

	Sources struct {
		USAJobs struct {
			Enabled bool   `yaml:"enabled"`
			APIKey  string `yaml:"api_key"`
			Email   string `yaml:"email"`
		} `yaml:"usajobs"`
		Adzuna struct {
			Enabled bool   `yaml:"enabled"`
			AppID   string `yaml:"app_id"`
			AppKey  string `yaml:"app_key"`
		} `yaml:"adzuna"`
		LinkedIn struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"linkedin"`
		Dice struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"dice"`
	} `yaml:"sources"`

	Inbox struct {
		Enabled      bool   `yaml:"enabled"`
		IMAPHost     string `yaml:"imap_host"`
		IMAPPort     int    `yaml:"imap_port"`
		Username     string `yaml:"username"`
		LookbackDays int    `yaml:"lookback_days"`
		MaxMessages  int    `yaml:"max_messages"`
	} `yaml:"inbox"`

	Gather struct {
		AdapterTimeoutSeconds int `yaml:"adapter_timeout_seconds"`
		PhaseTimeoutSeconds   int `yaml:"phase_timeout_seconds"`
	} `yaml:"gather"`

	// Fallback thresholds decide when the curated posting set is injected.
	Fallback struct {
		Enabled      bool `yaml:"enabled"`
		MinRaw       int  `yaml:"min_raw"`
		MinPromising int  `yaml:"min_promising"`
	} `yaml:"fallback"`

	Filters struct {
		RecencyDays int      `yaml:"recency_days"`
		TopicTerms  []string `yaml:"topic_terms"` // overrides the built-in list when set
	} `yaml:"filters"`

	Verify struct {
		Enabled        bool `yaml:"enabled"`
		MaxPerRun      int  `yaml:"max_per_run"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
		DelayMillis    int  `yaml:"delay_millis"`
		MinDescription int  `yaml:"min_description"`
	} `yaml:"verify"`

	Store struct {
		RunHistory int `yaml:"run_history"`
	} `yaml:"store"`

	Watch struct {
		IntervalHours int `yaml:"interval_hours"`
	} `yaml:"watch"`
}

// Default returns the configuration the engine runs with when the user file
// sets nothing. Every tuning knob the pipeline consults lives here so call
// sites never carry their own magic numbers.
func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.Search.Location = "Remote"
	cfg.Search.MaxPages = 3
	cfg.Sources.LinkedIn.Enabled = true
	cfg.Sources.Dice.Enabled = true
	cfg.Inbox.IMAPPort = 993
	cfg.Inbox.LookbackDays = 14
	cfg.Inbox.MaxMessages = 50
	cfg.Gather.AdapterTimeoutSeconds = 120
	cfg.Gather.PhaseTimeoutSeconds = 300
	cfg.Fallback.Enabled = true
	cfg.Fallback.MinRaw = 10
	cfg.Fallback.MinPromising = 3
	cfg.Filters.RecencyDays = 14
	cfg.Verify.Enabled = true
	cfg.Verify.MaxPerRun = 25
	cfg.Verify.TimeoutSeconds = 6
	cfg.Verify.DelayMillis = 3000
	cfg.Verify.MinDescription = 200
	cfg.Store.RunHistory = 10
	cfg.Watch.IntervalHours = 6
	return cfg
}

// Load reads path and unmarshals it over the defaults, so a sparse user file
// only overrides what it mentions.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveAtomic writes cfg via a temp file plus rename, keeping the previous
// version as .bak.
func SaveAtomic(path string, cfg Config) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func (c Config) AdapterTimeout() time.Duration {
	return time.Duration(c.Gather.AdapterTimeoutSeconds) * time.Second
}

func (c Config) PhaseTimeout() time.Duration {
	return time.Duration(c.Gather.PhaseTimeoutSeconds) * time.Second
}

func (c Config) VerifyTimeout() time.Duration {
	return time.Duration(c.Verify.TimeoutSeconds) * time.Second
}

func (c Config) VerifyDelay() time.Duration {
	return time.Duration(c.Verify.DelayMillis) * time.Millisecond
}
