package models

import "gorm.io/gorm"

// FetchFailure is one failed market-data fetch, journaled for diagnostics.
type FetchFailure struct {
	gorm.Model
	RequestID string `gorm:"index" json:"request_id"`
	Resource  string `gorm:"index" json:"resource"` // "coins", "global" or "categories"
	Kind      string `json:"kind"`                  // "rate_limited", "http", "network", "decode"
	Status    int    `json:"status,omitempty"`
	Message   string `json:"message"`
	Params    string `json:"params"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}
