package models

// Coin is a single cryptocurrency's market snapshot as returned by
// /coins/markets. Every numeric field is a pointer: upstream omits or
// nulls them freely and a missing value must not read as zero.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image"`

	CurrentPrice          *float64 `json:"current_price"`
	MarketCap             *float64 `json:"market_cap"`
	MarketCapRank         *int     `json:"market_cap_rank"`
	FullyDilutedValuation *float64 `json:"fully_diluted_valuation"`
	TotalVolume           *float64 `json:"total_volume"`
	High24h               *float64 `json:"high_24h"`
	Low24h                *float64 `json:"low_24h"`

	PriceChange24h                    *float64 `json:"price_change_24h"`
	PriceChangePercentage24h          *float64 `json:"price_change_percentage_24h"`
	PriceChangePercentage1hInCurrency *float64 `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage7dInCurrency *float64 `json:"price_change_percentage_7d_in_currency"`
	MarketCapChange24h                *float64 `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h      *float64 `json:"market_cap_change_percentage_24h"`

	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
	MaxSupply         *float64 `json:"max_supply"`

	Ath                 *float64 `json:"ath"`
	AthChangePercentage *float64 `json:"ath_change_percentage"`
	AthDate             string   `json:"ath_date,omitempty"`
	Atl                 *float64 `json:"atl"`
	AtlChangePercentage *float64 `json:"atl_change_percentage"`
	AtlDate             string   `json:"atl_date,omitempty"`
	LastUpdated         string   `json:"last_updated,omitempty"`

	SparklineIn7d *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// Sparkline is the ordered 7-day price series of a coin.
type Sparkline struct {
	Price []float64 `json:"price"`
}

func floatValue(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Price returns the current price and whether it is known.
func (c Coin) Price() (float64, bool) { return floatValue(c.CurrentPrice) }

// Cap returns the market cap and whether it is known.
func (c Coin) Cap() (float64, bool) { return floatValue(c.MarketCap) }

// Volume returns the 24h volume and whether it is known.
func (c Coin) Volume() (float64, bool) { return floatValue(c.TotalVolume) }

// Change1h returns the 1h price change percentage and whether it is known.
func (c Coin) Change1h() (float64, bool) { return floatValue(c.PriceChangePercentage1hInCurrency) }

// Change24h returns the 24h price change percentage and whether it is known.
func (c Coin) Change24h() (float64, bool) { return floatValue(c.PriceChangePercentage24h) }

// Change7d returns the 7d price change percentage and whether it is known.
func (c Coin) Change7d() (float64, bool) { return floatValue(c.PriceChangePercentage7dInCurrency) }

// Rank returns the market cap rank and whether it is known.
func (c Coin) Rank() (int, bool) {
	if c.MarketCapRank == nil {
		return 0, false
	}
	return *c.MarketCapRank, true
}

// SparklinePrices returns the 7-day series, or nil when upstream sent none.
func (c Coin) SparklinePrices() []float64 {
	if c.SparklineIn7d == nil {
		return nil
	}
	return c.SparklineIn7d.Price
}
