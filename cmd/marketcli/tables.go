package main

import (
	"io"
	"strconv"
	"strings"

	"coin-dashboard-go/internal/format"
	"coin-dashboard-go/internal/highlights"
	"coin-dashboard-go/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func rank(r *int) string {
	if r == nil {
		return format.NotAvailable
	}
	return strconv.Itoa(*r)
}

func renderCoins(w io.Writer, coins []models.Coin) {
	table := newTable(w, "#", "Coin", "Price", "1h", "24h", "7d", "24h Volume", "Market Cap")
	for _, c := range coins {
		table.Append([]string{
			rank(c.MarketCapRank),
			c.Name + " (" + strings.ToUpper(c.Symbol) + ")",
			format.Price(c.CurrentPrice),
			format.Percentage(c.PriceChangePercentage1hInCurrency),
			format.Percentage(c.PriceChangePercentage24h),
			format.Percentage(c.PriceChangePercentage7dInCurrency),
			format.Volume(c.TotalVolume),
			format.MarketCap(c.MarketCap),
		})
	}
	table.Render()
}

// coinRecord is the CSV shape of a coin. Unknown figures are empty cells.
type coinRecord struct {
	Rank      string `csv:"rank"`
	ID        string `csv:"id"`
	Symbol    string `csv:"symbol"`
	Name      string `csv:"name"`
	Price     string `csv:"current_price"`
	MarketCap string `csv:"market_cap"`
	Volume    string `csv:"total_volume"`
	Change1h  string `csv:"price_change_percentage_1h"`
	Change24h string `csv:"price_change_percentage_24h"`
	Change7d  string `csv:"price_change_percentage_7d"`
}

func raw(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeCoinsCSV(w io.Writer, coins []models.Coin) error {
	records := make([]coinRecord, 0, len(coins))
	for _, c := range coins {
		r := ""
		if c.MarketCapRank != nil {
			r = strconv.Itoa(*c.MarketCapRank)
		}
		records = append(records, coinRecord{
			Rank:      r,
			ID:        c.ID,
			Symbol:    c.Symbol,
			Name:      c.Name,
			Price:     raw(c.CurrentPrice),
			MarketCap: raw(c.MarketCap),
			Volume:    raw(c.TotalVolume),
			Change1h:  raw(c.PriceChangePercentage1hInCurrency),
			Change24h: raw(c.PriceChangePercentage24h),
			Change7d:  raw(c.PriceChangePercentage7dInCurrency),
		})
	}
	return gocsv.Marshal(&records, w)
}

func renderGlobal(w io.Writer, g *models.GlobalMarketData, currency string) {
	var mcap, vol *float64
	if v, ok := g.TotalMarketCapIn(currency); ok {
		mcap = &v
	}
	if v, ok := g.TotalVolumeIn(currency); ok {
		vol = &v
	}
	change := g.Data.MarketCapChangePercentage24hUSD
	dominance := func(symbol string) string {
		if v, ok := g.Dominance(symbol); ok {
			return format.Percentage(&v)
		}
		return format.NotAvailable
	}

	table := newTable(w, "Figure", "Value")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Market Cap (" + strings.ToUpper(currency) + ")", format.LargeNumber(mcap)},
		{"24h Change", format.Percentage(&change)},
		{"24h Volume (" + strings.ToUpper(currency) + ")", format.LargeNumber(vol)},
		{"Active Cryptocurrencies", strconv.Itoa(g.Data.ActiveCryptocurrencies)},
		{"Markets", strconv.Itoa(g.Data.Markets)},
		{"BTC Dominance", dominance("btc")},
		{"ETH Dominance", dominance("eth")},
		{"Updated", format.DateOf(g.Updated())},
	})
	table.Render()
}

func renderCategories(w io.Writer, categories []models.Category) {
	table := newTable(w, "#", "Category", "24h", "Market Cap", "24h Volume", "Updated")
	for i, c := range categories {
		change, volume := c.MarketCapChange24h, c.Volume24h
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.Name,
			format.Percentage(&change),
			format.MarketCap(c.MarketCap),
			format.Volume(&volume),
			format.DateOf(c.UpdatedAt),
		})
	}
	table.Render()
}

func renderCard(w io.Writer, card highlights.CardData) {
	io.WriteString(w, card.Title+"\n")
	last := "24h"
	if card.Card == highlights.VolumeCard {
		last = "Volume"
	}
	table := newTable(w, "Coin", "Price", last)
	for _, r := range card.Rows {
		value := format.Percentage(r.Change24h)
		if card.Card == highlights.VolumeCard {
			value = format.Volume(r.Volume)
		}
		table.Append([]string{strings.ToUpper(r.Symbol), format.Price(r.Price), value})
	}
	table.Render()
}

func renderTrending(w io.Writer, t *models.TrendingResponse) {
	table := newTable(w, "#", "Coin", "Market Cap Rank", "Price (BTC)")
	for i, c := range t.Coins {
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.Item.Name + " (" + strings.ToUpper(c.Item.Symbol) + ")",
			rank(c.Item.MarketCapRank),
			strconv.FormatFloat(c.Item.PriceBTC, 'f', 8, 64),
		})
	}
	table.Render()
}
