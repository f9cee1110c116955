package domain

import "time"

// Source identifies the origin of a posting.
type Source string

const (
	SourceUSAJobs  Source = "usajobs"
	SourceAdzuna   Source = "adzuna"
	SourceLinkedIn Source = "linkedin"
	SourceDice     Source = "dice"
	SourceInbox    Source = "inbox"
	SourceCurated  Source = "curated"
)

// RawPosting is the record emitted by a single source adapter. Adapters emit it
// once and never touch it again; every later stage builds a new record so each
// stage's output stays auditable.
type RawPosting struct {
	ID          string
	Title       string
	Company     string
	Location    string // free text, may be empty
	URL         string
	Source      Source
	PostedAt    time.Time // discovery time when the source gives no date
	Description string
	Salary      string
	Remote      bool
}

// CanonicalPosting is a RawPosting after normalization. Exactly one canonical
// posting exists per distinct CanonicalURL.
type CanonicalPosting struct {
	RawPosting

	// CanonicalURL is the URL lowercased and stripped of query, fragment and
	// trailing slash. It is the identity key for dedup, both within a run and
	// across runs.
	CanonicalURL string
}

// ScoredPosting carries the profile-match result for one canonical posting.
type ScoredPosting struct {
	CanonicalPosting

	MatchScore      int // 0-100, after the role penalty
	FoundKeywords   []string
	MissingKeywords []string
	CriticalMissing []string
	RolePenalty     int // 0-30
	RoleReason      string
}

// VerifiedPosting is a ScoredPosting after link verification. A posting with
// LinkStatus zero was kept unverified, not proven dead.
type VerifiedPosting struct {
	ScoredPosting

	LinkStatus    int // HTTP status, or 0 if unverified
	VerifiedAt    time.Time
	RequiresLogin bool
	IsNew         bool // first time this CanonicalURL has been seen across runs
}
