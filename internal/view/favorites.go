package view

import (
	"slices"
	"sync"
)

// Favorites is a set of starred coin ids. It lives only as long as the
// view that owns it.
type Favorites struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewFavorites() *Favorites {
	return &Favorites{ids: make(map[string]struct{})}
}

// Toggle stars id, or unstars it when already starred, and reports
// whether it is starred afterwards.
func (f *Favorites) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

func (f *Favorites) Has(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// IDs returns the starred ids in sorted order.
func (f *Favorites) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
