package view

import (
	"fmt"
	"strings"
	"sync"
)

// Tab identifiers of the dashboard.
const (
	TabAll        = "all"
	TabHighlights = "highlights"
	TabCategories = "categories"
)

// Tab is one entry of the tab bar. Placeholder tabs have no content yet.
type Tab struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder bool   `json:"placeholder"`
}

// Message is the text shown in place of a placeholder tab's content.
func (t Tab) Message() string {
	if !t.Placeholder {
		return ""
	}
	name := strings.Replace(t.ID, "-", " ", 1)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name + " data coming soon..."
}

// DefaultTabs is the tab bar of the dashboard.
func DefaultTabs() []Tab {
	return []Tab{
		{ID: TabAll, Label: "All"},
		{ID: TabHighlights, Label: "Highlights"},
		{ID: TabCategories, Label: "Categories"},
		{ID: "robotics", Label: "Robotics", Placeholder: true},
		{ID: "launchpad", Label: "Launchpad", Placeholder: true},
		{ID: "binance-ido", Label: "Binance Wallet IDO", Placeholder: true},
		{ID: "pow", Label: "Proof of Work (PoW)", Placeholder: true},
	}
}

// Tabs tracks the active tab.
type Tabs struct {
	mu     sync.RWMutex
	tabs   []Tab
	active string
}

// NewTabs creates a tab bar with active selected. It panics if active
// is not one of tabs.
func NewTabs(tabs []Tab, active string) *Tabs {
	t := &Tabs{tabs: tabs}
	if err := t.Select(active); err != nil {
		panic(err)
	}
	return t
}

// Select makes id the active tab.
func (t *Tabs) Select(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tab := range t.tabs {
		if tab.ID == id {
			t.active = id
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", id)
}

// Active returns the active tab.
func (t *Tabs) Active() Tab {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, tab := range t.tabs {
		if tab.ID == t.active {
			return tab
		}
	}
	return Tab{}
}

// All returns the tabs in display order.
func (t *Tabs) All() []Tab {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Tab(nil), t.tabs...)
}
