package models

import "time"

// Category is an aggregate over a group of coins. Defaults for fields
// upstream omitted are applied once, when the category is ingested.
type Category struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	MarketCap          *float64  `json:"market_cap"`
	MarketCapChange24h float64   `json:"market_cap_change_24h"`
	Content            string    `json:"content,omitempty"`
	Top3Coins          []string  `json:"top_3_coins"`
	Volume24h          float64   `json:"volume_24h"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Cap returns the aggregate market cap and whether it is known.
func (c Category) Cap() (float64, bool) { return floatValue(c.MarketCap) }
