package models

import "encoding/json"

// TrendingResponse is the /search/trending payload. Only coins are typed;
// nfts and categories are kept raw.
type TrendingResponse struct {
	Coins      []TrendingCoin    `json:"coins"`
	NFTs       []json.RawMessage `json:"nfts"`
	Categories []json.RawMessage `json:"categories"`
}

// TrendingCoin wraps a trending entry.
type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

// TrendingItem is one coin in the trending list.
type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank *int    `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Small         string  `json:"small"`
	Large         string  `json:"large"`
	Slug          string  `json:"slug"`
	PriceBTC      float64 `json:"price_btc"`
	Score         int     `json:"score"`
}
