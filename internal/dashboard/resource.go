package dashboard

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of one resource.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Resource is a read-only view of one independently fetched unit of state.
// A failed fetch keeps the last good Data; HasData tells whether there
// ever was one.
type Resource[T any] struct {
	Status    Status    `json:"status"`
	Data      T         `json:"data"`
	HasData   bool      `json:"has_data"`
	Err       string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// resourceState is the store-internal bookkeeping behind a Resource.
type resourceState[T any] struct {
	Resource[T]
	issued  uint64 // sequence number of the newest fetch issued
	applied uint64 // sequence number of the newest completion applied
	dataGen uint64 // bumped only when Data is replaced
}

func (r *resourceState[T]) begin() uint64 {
	r.issued++
	r.Status = Loading
	return r.issued
}

// complete applies a completion unless a newer one was already applied.
// The resource stays Loading while a newer fetch is still outstanding.
func (r *resourceState[T]) complete(seq uint64, data T, errMsg string, now time.Time) bool {
	if seq <= r.applied {
		return false
	}
	r.applied = seq

	if errMsg == "" {
		r.Data = data
		r.dataGen++
		r.HasData = true
		r.Err = ""
		r.UpdatedAt = now
		r.Status = Ready
	} else {
		r.Err = errMsg
		r.Status = Failed
	}
	if seq < r.issued {
		r.Status = Loading
	}
	return true
}
