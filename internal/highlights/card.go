package highlights

import "coin-dashboard-go/internal/models"

// CardKind selects which figures a highlight card carries.
type CardKind int

const (
	// PriceCard shows price and 24h change.
	PriceCard CardKind = iota
	// VolumeCard shows price and 24h volume.
	VolumeCard
)

// Card returns the card variant used to render k.
func (k Kind) Card() CardKind {
	if k == HighestVolume {
		return VolumeCard
	}
	return PriceCard
}

// CardRow is one line on a highlight card. Exactly one of Change24h and
// Volume is meaningful, depending on the card kind.
type CardRow struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Price     *float64 `json:"price"`
	Change24h *float64 `json:"change_24h,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
}

// CardData is a titled highlight card.
type CardData struct {
	Kind  Kind      `json:"kind"`
	Title string    `json:"title"`
	Card  CardKind  `json:"card"`
	Rows  []CardRow `json:"rows"`
}

// NewCard builds the card for kind from its coin list.
func NewCard(kind Kind, coins []models.Coin) CardData {
	card := CardData{Kind: kind, Title: kind.Title(), Card: kind.Card(), Rows: make([]CardRow, 0, len(coins))}
	for _, c := range coins {
		row := CardRow{ID: c.ID, Symbol: c.Symbol, Name: c.Name, Image: c.Image, Price: c.CurrentPrice}
		switch card.Card {
		case VolumeCard:
			row.Volume = c.TotalVolume
		default:
			row.Change24h = c.PriceChangePercentage24h
		}
		card.Rows = append(card.Rows, row)
	}
	return card
}

// Cards builds one card per kind, each cut to at most n rows.
func (h Highlights) Cards(n int) []CardData {
	top := h.Top(n)
	cards := make([]CardData, 0, len(Kinds()))
	for _, k := range Kinds() {
		coins, _ := top.Get(k)
		cards = append(cards, NewCard(k, coins))
	}
	return cards
}
