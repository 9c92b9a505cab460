// Package highlights derives the ranked coin views shown on the
// highlights tab from a coin listing. Everything here is a pure function
// of its input; ties keep the input order.
package highlights

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"coin-dashboard-go/internal/models"
)

// Kind names one highlight list.
type Kind string

const (
	Trending      Kind = "trending"
	TopGainers    Kind = "top_gainers"
	TopLosers     Kind = "top_losers"
	HighestVolume Kind = "highest_volume"
	NewCoins      Kind = "new_coins"
)

// ErrUnknownKind is returned when a highlight kind is not recognized.
var ErrUnknownKind = errors.New("unknown highlight kind")

// Kinds lists every highlight kind in display order.
func Kinds() []Kind {
	return []Kind{Trending, TopGainers, TopLosers, NewCoins, HighestVolume}
}

// ParseKind validates raw.
func ParseKind(raw string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Title is the card heading for k.
func (k Kind) Title() string {
	switch k {
	case Trending:
		return "Trending Coins"
	case TopGainers:
		return "Top Gainers"
	case TopLosers:
		return "Top Losers"
	case HighestVolume:
		return "Highest Volume"
	case NewCoins:
		return "New Coins"
	default:
		return string(k)
	}
}

// Highlights holds the five derived lists.
type Highlights struct {
	Trending      []models.Coin `json:"trending"`
	TopGainers    []models.Coin `json:"top_gainers"`
	TopLosers     []models.Coin `json:"top_losers"`
	HighestVolume []models.Coin `json:"highest_volume"`
	NewCoins      []models.Coin `json:"new_coins"`
}

// Compute derives all five lists from coins. coins is not modified.
//
// Trending is ordered by market cap, highest first, with unknown caps last.
// It does not use the trending search endpoint.
func Compute(coins []models.Coin) Highlights {
	return Highlights{
		Trending:      byMarketCap(coins),
		TopGainers:    byChange24h(coins, true),
		TopLosers:     byChange24h(coins, false),
		HighestVolume: byVolume(coins),
		NewCoins:      byRank(coins),
	}
}

func byMarketCap(coins []models.Coin) []models.Coin {
	out := slices.Clone(coins)
	slices.SortStableFunc(out, func(a, b models.Coin) int {
		av, aok := a.Cap()
		bv, bok := b.Cap()
		switch {
		case aok && bok:
			return cmp.Compare(bv, av)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return out
}

func byChange24h(coins []models.Coin, descending bool) []models.Coin {
	out := keep(coins, func(c models.Coin) bool { _, ok := c.Change24h(); return ok })
	slices.SortStableFunc(out, func(a, b models.Coin) int {
		av, _ := a.Change24h()
		bv, _ := b.Change24h()
		if descending {
			return cmp.Compare(bv, av)
		}
		return cmp.Compare(av, bv)
	})
	return out
}

func byVolume(coins []models.Coin) []models.Coin {
	out := keep(coins, func(c models.Coin) bool { _, ok := c.Volume(); return ok })
	slices.SortStableFunc(out, func(a, b models.Coin) int {
		av, _ := a.Volume()
		bv, _ := b.Volume()
		return cmp.Compare(bv, av)
	})
	return out
}

func byRank(coins []models.Coin) []models.Coin {
	out := keep(coins, func(c models.Coin) bool { _, ok := c.Rank(); return ok })
	slices.SortStableFunc(out, func(a, b models.Coin) int {
		av, _ := a.Rank()
		bv, _ := b.Rank()
		return cmp.Compare(av, bv)
	})
	return out
}

func keep(coins []models.Coin, pred func(models.Coin) bool) []models.Coin {
	out := make([]models.Coin, 0, len(coins))
	for _, c := range coins {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the full list for kind.
func (h Highlights) Get(kind Kind) ([]models.Coin, error) {
	switch kind {
	case Trending:
		return h.Trending, nil
	case TopGainers:
		return h.TopGainers, nil
	case TopLosers:
		return h.TopLosers, nil
	case HighestVolume:
		return h.HighestVolume, nil
	case NewCoins:
		return h.NewCoins, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Top returns a copy of h with every list cut to at most n entries.
func (h Highlights) Top(n int) Highlights {
	cut := func(coins []models.Coin) []models.Coin {
		if n < 0 || len(coins) <= n {
			return coins
		}
		return coins[:n]
	}
	return Highlights{
		Trending:      cut(h.Trending),
		TopGainers:    cut(h.TopGainers),
		TopLosers:     cut(h.TopLosers),
		HighestVolume: cut(h.HighestVolume),
		NewCoins:      cut(h.NewCoins),
	}
}

// TopCategories orders categories by market cap, highest first, unknown last.
func TopCategories(categories []models.Category) []models.Category {
	out := slices.Clone(categories)
	slices.SortStableFunc(out, func(a, b models.Category) int {
		av, aok := a.Cap()
		bv, bok := b.Cap()
		switch {
		case aok && bok:
			return cmp.Compare(bv, av)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return out
}

// Memo caches the highlights of the most recent coin generation so
// repeated reads of an unchanged listing do not re-sort it.
type Memo struct {
	mu    sync.Mutex
	valid bool
	gen   uint64
	value Highlights
}

// Get returns Compute(coins), recomputing only when gen differs from the
// generation of the cached value.
func (m *Memo) Get(gen uint64, coins []models.Coin) Highlights {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid || m.gen != gen {
		m.value = Compute(coins)
		m.gen = gen
		m.valid = true
	}
	return m.value
}
