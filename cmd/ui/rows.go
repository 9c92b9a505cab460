package main

import (
	"strings"

	"coin-dashboard-go/internal/dashboard"
	"coin-dashboard-go/internal/format"
	"coin-dashboard-go/internal/highlights"
	"coin-dashboard-go/internal/models"
	"coin-dashboard-go/internal/view"
)

// CoinDisplay carries the formatted cells of one coin table row.
type CoinDisplay struct {
	Price          string      `json:"price"`
	Change1h       string      `json:"change_1h"`
	Change24h      string      `json:"change_24h"`
	Change7d       string      `json:"change_7d"`
	Volume         string      `json:"volume"`
	MarketCap      string      `json:"market_cap"`
	Tone1h         format.Tone `json:"tone_1h"`
	Tone24h        format.Tone `json:"tone_24h"`
	Tone7d         format.Tone `json:"tone_7d"`
	Sparkline      string      `json:"sparkline,omitempty"`
	SparklineColor string      `json:"sparkline_color,omitempty"`
}

// CoinRow is a coin as served to the table.
type CoinRow struct {
	models.Coin
	Favorite bool        `json:"favorite"`
	Display  CoinDisplay `json:"display"`
}

func newCoinRow(c models.Coin, fav *view.Favorites) CoinRow {
	d := CoinDisplay{
		Price:     format.Price(c.CurrentPrice),
		Change1h:  format.Percentage(c.PriceChangePercentage1hInCurrency),
		Change24h: format.Percentage(c.PriceChangePercentage24h),
		Change7d:  format.Percentage(c.PriceChangePercentage7dInCurrency),
		Volume:    format.Volume(c.TotalVolume),
		MarketCap: format.MarketCap(c.MarketCap),
		Tone1h:    format.ToneOf(c.PriceChangePercentage1hInCurrency),
		Tone24h:   format.ToneOf(c.PriceChangePercentage24h),
		Tone7d:    format.ToneOf(c.PriceChangePercentage7dInCurrency),
	}
	if s, ok := view.NewSparkline(c.SparklinePrices(), view.SparklineWidth, view.SparklineHeight); ok {
		d.Sparkline = s.Polyline()
		d.SparklineColor = s.Color()
	}
	return CoinRow{Coin: c, Favorite: fav.Has(c.ID), Display: d}
}

func coinRows(coins []models.Coin, fav *view.Favorites) []CoinRow {
	rows := make([]CoinRow, 0, len(coins))
	for _, c := range coins {
		rows = append(rows, newCoinRow(c, fav))
	}
	return rows
}

// GlobalSummary is the formatted market overview. Loading stays true
// until global data has arrived, whatever happened to the fetch.
type GlobalSummary struct {
	Loading   bool        `json:"loading"`
	MarketCap string      `json:"market_cap"`
	Volume    string      `json:"volume"`
	Change24h string      `json:"change_24h"`
	Tone      format.Tone `json:"tone"`
	Updated   string      `json:"updated"`
}

func newGlobalSummary(res dashboard.Resource[*models.GlobalMarketData], currency string) GlobalSummary {
	if !res.HasData || res.Data == nil {
		return GlobalSummary{Loading: true}
	}
	g := res.Data
	var mcap, vol *float64
	if v, ok := g.TotalMarketCapIn(currency); ok {
		mcap = &v
	}
	if v, ok := g.TotalVolumeIn(currency); ok {
		vol = &v
	}
	change := g.Data.MarketCapChangePercentage24hUSD
	return GlobalSummary{
		MarketCap: format.LargeNumber(mcap),
		Volume:    format.LargeNumber(vol),
		Change24h: format.Percentage(&change),
		Tone:      format.ToneOf(&change),
		Updated:   format.DateOf(g.Updated()),
	}
}

// CategoryRow is one formatted line of the categories table.
type CategoryRow struct {
	Rank      int         `json:"rank"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	MarketCap string      `json:"market_cap"`
	Change24h string      `json:"change_24h"`
	Tone      format.Tone `json:"tone"`
	Volume    string      `json:"volume"`
	Top3Coins []string    `json:"top_3_coins"`
	Updated   string      `json:"updated"`
}

func categoryRows(categories []models.Category) []CategoryRow {
	rows := make([]CategoryRow, 0, len(categories))
	for i, c := range categories {
		change, volume := c.MarketCapChange24h, c.Volume24h
		rows = append(rows, CategoryRow{
			Rank:      i + 1,
			ID:        c.ID,
			Name:      c.Name,
			MarketCap: format.MarketCap(c.MarketCap),
			Change24h: format.Percentage(&change),
			Tone:      format.ToneOf(&change),
			Volume:    format.Volume(&volume),
			Top3Coins: c.Top3Coins,
			Updated:   format.DateOf(c.UpdatedAt),
		})
	}
	return rows
}

// CardView is a highlight card ready for the page.
type CardView struct {
	Title  string
	Volume bool
	Rows   []CardRowView
}

type CardRowView struct {
	Symbol string
	Name   string
	Image  string
	Price  string
	Value  string
	Tone   format.Tone
}

func cardViews(cards []highlights.CardData) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, card := range cards {
		cv := CardView{Title: card.Title, Volume: card.Card == highlights.VolumeCard}
		for _, r := range card.Rows {
			row := CardRowView{Symbol: strings.ToUpper(r.Symbol), Name: r.Name, Image: r.Image, Price: format.Price(r.Price)}
			if cv.Volume {
				row.Value = format.Volume(r.Volume)
				row.Tone = format.ToneNeutral
			} else {
				row.Value = format.Percentage(r.Change24h)
				row.Tone = format.ToneOf(r.Change24h)
			}
			cv.Rows = append(cv.Rows, row)
		}
		out = append(out, cv)
	}
	return out
}

// ColumnHeader is a coin table header with its sort state.
type ColumnHeader struct {
	Key      view.Column
	Label    string
	Sortable bool
	Arrow    string
}

var columnLabels = map[view.Column]string{
	view.ColumnRank:      "#",
	view.ColumnName:      "Coin",
	view.ColumnPrice:     "Price",
	view.ColumnChange1h:  "1h",
	view.ColumnChange24h: "24h",
	view.ColumnChange7d:  "7d",
	view.ColumnVolume:    "24h Volume",
	view.ColumnMarketCap: "Market Cap",
}

func columnHeaders(current models.SortOrder) []ColumnHeader {
	out := make([]ColumnHeader, 0, len(view.Columns()))
	for _, c := range view.Columns() {
		h := ColumnHeader{Key: c, Label: columnLabels[c], Sortable: c.Sortable()}
		if c.Active(current) && c != view.ColumnRank {
			h.Arrow = "▲"
			if current.Descending() {
				h.Arrow = "▼"
			}
		}
		out = append(out, h)
	}
	return out
}
