package view

import (
	"testing"

	"coin-dashboard-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate(t *testing.T) {
	list := seq(23)

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantItems []int
		hasPrev   bool
		hasNext   bool
	}{
		{"first page", 1, 1, seq(10), false, true},
		{"middle page", 2, 2, list[10:20], true, true},
		{"short last page", 3, 3, list[20:23], true, false},
		{"page zero clamps to first", 0, 1, seq(10), false, true},
		{"past the end clamps to last", 9, 3, list[20:23], true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(list, 10, tt.page)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantItems, p.Items)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, 23, p.Total)
			assert.Equal(t, tt.hasPrev, p.HasPrev())
			assert.Equal(t, tt.hasNext, p.HasNext())
		})
	}
}

func TestPaginate_SliceInvariant(t *testing.T) {
	for n := 0; n <= 31; n++ {
		list := seq(n)
		for r := 1; r <= 7; r++ {
			total := TotalPages(n, r)
			for page := 1; page <= total; page++ {
				got := Paginate(list, r, page)
				assert.Equal(t, list[(page-1)*r:min(page*r, n)], got.Items, "n=%d r=%d page=%d", n, r, page)
			}
		}
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 10, 4)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestToggleSort(t *testing.T) {
	tests := []struct {
		name    string
		current models.SortOrder
		column  Column
		want    models.SortOrder
		wantErr error
	}{
		{"new column starts descending", models.SortMarketCapDesc, ColumnPrice, models.SortPriceDesc, nil},
		{"same column flips to ascending", models.SortPriceDesc, ColumnPrice, models.SortPriceAsc, nil},
		{"same column flips back", models.SortPriceAsc, ColumnPrice, models.SortPriceDesc, nil},
		{"24h change", models.SortVolumeDesc, ColumnChange24h, models.SortPercentChange24hDesc, nil},
		{"name sorts by id", models.SortMarketCapDesc, ColumnName, models.SortIDDesc, nil},
		{"rank shares market cap", models.SortMarketCapDesc, ColumnRank, models.SortMarketCapAsc, nil},
		{"volume", models.SortMarketCapAsc, ColumnVolume, models.SortVolumeDesc, nil},
		{"1h is not sortable", models.SortMarketCapDesc, ColumnChange1h, "", ErrUnsortableColumn},
		{"7d is not sortable", models.SortMarketCapDesc, ColumnChange7d, "", ErrUnsortableColumn},
		{"unknown column", models.SortMarketCapDesc, "supply", "", ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToggleSort(tt.current, tt.column)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestColumn_Active(t *testing.T) {
	assert.True(t, ColumnMarketCap.Active(models.SortMarketCapAsc))
	assert.True(t, ColumnRank.Active(models.SortMarketCapDesc))
	assert.False(t, ColumnPrice.Active(models.SortMarketCapDesc))
	assert.False(t, ColumnChange7d.Active(models.SortMarketCapDesc))
	assert.False(t, ColumnChange1h.Sortable())
	assert.True(t, ColumnVolume.Sortable())
}

func TestFavorites(t *testing.T) {
	f := NewFavorites()
	assert.False(t, f.Has("bitcoin"))

	assert.True(t, f.Toggle("bitcoin"))
	assert.True(t, f.Toggle("ethereum"))
	assert.True(t, f.Has("bitcoin"))
	assert.Equal(t, []string{"bitcoin", "ethereum"}, f.IDs())

	assert.False(t, f.Toggle("bitcoin"))
	assert.False(t, f.Has("bitcoin"))
	assert.Equal(t, []string{"ethereum"}, f.IDs())
}

func TestTabs(t *testing.T) {
	tabs := NewTabs(DefaultTabs(), TabAll)
	assert.Equal(t, TabAll, tabs.Active().ID)
	assert.Len(t, tabs.All(), 7)

	require.NoError(t, tabs.Select("binance-ido"))
	active := tabs.Active()
	assert.True(t, active.Placeholder)
	assert.Equal(t, "Binance ido data coming soon...", active.Message())

	assert.Error(t, tabs.Select("defi"))
	assert.Equal(t, "binance-ido", tabs.Active().ID, "failed select keeps the active tab")

	require.NoError(t, tabs.Select(TabHighlights))
	assert.Empty(t, tabs.Active().Message())

	assert.Panics(t, func() { NewTabs(DefaultTabs(), "nope") })
}

func TestSparkline(t *testing.T) {
	s, ok := NewSparkline([]float64{10, 20, 15}, SparklineWidth, SparklineHeight)
	require.True(t, ok)
	assert.Equal(t, []Point{{0, 48}, {64, 0}, {128, 24}}, s.Points)
	assert.True(t, s.Up)
	assert.Equal(t, "#10b981", s.Color())
	assert.Equal(t, "0,48 64,0 128,24", s.Polyline())

	down, ok := NewSparkline([]float64{3, 1}, 10, 10)
	require.True(t, ok)
	assert.False(t, down.Up)
	assert.Equal(t, "#ef4444", down.Color())
	assert.Equal(t, "0,0 10,10", down.Polyline())

	for _, prices := range [][]float64{nil, {5}, {2, 2, 2}} {
		_, ok := NewSparkline(prices, SparklineWidth, SparklineHeight)
		assert.False(t, ok, "%v draws a placeholder", prices)
	}
}
