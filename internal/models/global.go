package models

import "time"

// GlobalMarketData is the /global envelope: aggregate figures at fetch time.
type GlobalMarketData struct {
	Data GlobalData `json:"data"`
}

// GlobalData holds the aggregate figures. Monetary maps are keyed by
// lower-case currency code.
type GlobalData struct {
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies"`
	UpcomingICOs                    int                `json:"upcoming_icos"`
	OngoingICOs                     int                `json:"ongoing_icos"`
	EndedICOs                       int                `json:"ended_icos"`
	Markets                         int                `json:"markets"`
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                       int64              `json:"updated_at"`
}

// TotalMarketCapIn returns the total market cap denominated in currency.
func (g GlobalMarketData) TotalMarketCapIn(currency string) (float64, bool) {
	v, ok := g.Data.TotalMarketCap[currency]
	return v, ok
}

// TotalVolumeIn returns the total 24h volume denominated in currency.
func (g GlobalMarketData) TotalVolumeIn(currency string) (float64, bool) {
	v, ok := g.Data.TotalVolume[currency]
	return v, ok
}

// Dominance returns the market cap share of the coin with the given symbol.
func (g GlobalMarketData) Dominance(symbol string) (float64, bool) {
	v, ok := g.Data.MarketCapPercentage[symbol]
	return v, ok
}

// Updated returns the upstream update time.
func (g GlobalMarketData) Updated() time.Time {
	return time.Unix(g.Data.UpdatedAt, 0)
}
