package dashboard

import (
	"context"
	"time"
)

// Resource names, as logged and journaled.
const (
	ResourceCoins      = "coins"
	ResourceGlobal     = "global"
	ResourceCategories = "categories"
)

// Failure describes one failed fetch.
type Failure struct {
	RequestID string
	Resource  string
	Params    Params
	Err       error
	At        time.Time
}

// Recorder receives every fetch failure, stale or not, for diagnostics.
type Recorder interface {
	RecordFailure(ctx context.Context, f Failure) error
}
