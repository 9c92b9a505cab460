package highlights

import (
	"math/rand"
	"slices"
	"testing"

	"coin-dashboard-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func coin(id string, mcap, change, volume *float64, rank *int) models.Coin {
	return models.Coin{
		ID:                       id,
		Symbol:                   id,
		Name:                     id,
		CurrentPrice:             f(1),
		MarketCap:                mcap,
		PriceChangePercentage24h: change,
		TotalVolume:              volume,
		MarketCapRank:            rank,
	}
}

func ids(coins []models.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.ID)
	}
	return out
}

func sampleCoins() []models.Coin {
	return []models.Coin{
		coin("a", f(500), f(2.5), f(10), i(1)),
		coin("b", f(900), nil, f(40), i(3)),
		coin("c", nil, f(-4), nil, nil),
		coin("d", f(100), f(12), f(40), i(2)),
		coin("e", f(700), f(-0.5), f(5), i(7)),
	}
}

func TestCompute(t *testing.T) {
	h := Compute(sampleCoins())

	assert.Equal(t, []string{"b", "e", "a", "d", "c"}, ids(h.Trending), "market cap desc, unknown last")
	assert.Equal(t, []string{"d", "a", "e", "c"}, ids(h.TopGainers))
	assert.Equal(t, []string{"c", "e", "a", "d"}, ids(h.TopLosers))
	assert.Equal(t, []string{"b", "d", "a", "e"}, ids(h.HighestVolume), "ties keep input order")
	assert.Equal(t, []string{"a", "d", "b", "e"}, ids(h.NewCoins))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	in := sampleCoins()
	before := ids(in)
	_ = Compute(in)
	assert.Equal(t, before, ids(in))
}

func TestCompute_Empty(t *testing.T) {
	h := Compute(nil)
	assert.Empty(t, h.Trending)
	assert.Empty(t, h.TopGainers)
	assert.Empty(t, h.TopLosers)
	assert.Empty(t, h.HighestVolume)
	assert.Empty(t, h.NewCoins)
}

func randomCoins(r *rand.Rand, n int) []models.Coin {
	coins := make([]models.Coin, 0, n)
	used := map[float64]bool{}
	for k := 0; k < n; k++ {
		c := models.Coin{ID: string(rune('A'+k%26)) + string(rune('a'+k/26))}
		if r.Intn(4) > 0 {
			// distinct changes so the reversal property is well defined
			v := float64(r.Intn(20000)-10000) / 100
			for used[v] {
				v += 0.001
			}
			used[v] = true
			c.PriceChangePercentage24h = f(v)
		}
		if r.Intn(4) > 0 {
			c.TotalVolume = f(float64(r.Intn(1000)))
		}
		if r.Intn(4) > 0 {
			c.MarketCapRank = i(r.Intn(500) + 1)
		}
		coins = append(coins, c)
	}
	return coins
}

func TestCompute_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		coins := randomCoins(r, r.Intn(250))
		h := Compute(coins)

		for _, c := range append(slices.Clone(h.TopGainers), h.TopLosers...) {
			_, ok := c.Change24h()
			require.True(t, ok, "gainers/losers must only hold coins with a known 24h change")
		}

		reversed := slices.Clone(ids(h.TopLosers))
		slices.Reverse(reversed)
		require.Equal(t, ids(h.TopGainers), reversed)

		for k := 1; k < len(h.HighestVolume); k++ {
			prev, ok := h.HighestVolume[k-1].Volume()
			require.True(t, ok)
			cur, ok := h.HighestVolume[k].Volume()
			require.True(t, ok)
			require.GreaterOrEqual(t, prev, cur)
		}

		for k := 1; k < len(h.NewCoins); k++ {
			prev, _ := h.NewCoins[k-1].Rank()
			cur, _ := h.NewCoins[k].Rank()
			require.LessOrEqual(t, prev, cur)
		}

		require.Len(t, h.Trending, len(coins))
		require.Equal(t, h, Compute(coins), "compute must be deterministic")
	}
}

func TestGetAndTop(t *testing.T) {
	h := Compute(sampleCoins())

	for _, k := range Kinds() {
		list, err := h.Get(k)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	}

	_, err := h.Get(Kind("most_viewed"))
	assert.ErrorIs(t, err, ErrUnknownKind)

	top := h.Top(2)
	assert.Equal(t, []string{"b", "e"}, ids(top.Trending))
	assert.Equal(t, []string{"d", "a"}, ids(top.TopGainers))
	assert.Len(t, h.Top(100).Trending, 5)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("top_losers")
	require.NoError(t, err)
	assert.Equal(t, TopLosers, k)

	_, err = ParseKind("topLosers")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCards(t *testing.T) {
	cards := Compute(sampleCoins()).Cards(3)
	require.Len(t, cards, len(Kinds()))

	for _, card := range cards {
		assert.LessOrEqual(t, len(card.Rows), 3)
		assert.Equal(t, card.Kind.Title(), card.Title)
		for _, row := range card.Rows {
			if card.Kind == HighestVolume {
				assert.Equal(t, VolumeCard, card.Card)
				assert.Nil(t, row.Change24h)
				assert.NotNil(t, row.Volume)
			} else {
				assert.Equal(t, PriceCard, card.Card)
				assert.Nil(t, row.Volume)
			}
		}
	}
}

func TestTopCategories(t *testing.T) {
	cats := []models.Category{
		{ID: "small", MarketCap: f(10)},
		{ID: "unknown"},
		{ID: "big", MarketCap: f(1000)},
	}
	out := TopCategories(cats)
	assert.Equal(t, "big", out[0].ID)
	assert.Equal(t, "small", out[1].ID)
	assert.Equal(t, "unknown", out[2].ID)
	assert.Equal(t, "small", cats[0].ID)
}

func TestMemo(t *testing.T) {
	var m Memo
	coins := sampleCoins()

	first := m.Get(1, coins)
	// same generation: the cached value is returned even for a different slice
	assert.Equal(t, first, m.Get(1, nil))

	second := m.Get(2, coins[:1])
	assert.Equal(t, []string{"a"}, ids(second.Trending))
}
