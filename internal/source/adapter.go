package source

import (
	"context"

	"jobscout-engine/internal/domain"
)

// Query carries the search parameters shared by every adapter.
type Query struct {
	Terms    []string
	Location string
	MaxPages int
}

// Adapter fetches raw postings from one upstream source. Implementations are
// best-effort: an error means this source produced nothing this run, never
// that the whole gather should stop.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]domain.RawPosting, error)
}
