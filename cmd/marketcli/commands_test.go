package main

import (
	"bytes"
	"context"
	"testing"

	"coin-dashboard-go/internal/coingecko"
	"coin-dashboard-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMarketData is a mock implementation of coingecko.MarketData.
type MockMarketData struct {
	mock.Mock
}

func (m *MockMarketData) FetchCoins(ctx context.Context, page, perPage int, order models.SortOrder, currency string) ([]models.Coin, error) {
	args := m.Called(ctx, page, perPage, order, currency)
	coins, _ := args.Get(0).([]models.Coin)
	return coins, args.Error(1)
}

func (m *MockMarketData) FetchGlobal(ctx context.Context, currency string) (*models.GlobalMarketData, error) {
	args := m.Called(ctx, currency)
	global, _ := args.Get(0).(*models.GlobalMarketData)
	return global, args.Error(1)
}

func (m *MockMarketData) FetchCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *MockMarketData) FetchTrending(ctx context.Context) (*models.TrendingResponse, error) {
	args := m.Called(ctx)
	trending, _ := args.Get(0).(*models.TrendingResponse)
	return trending, args.Error(1)
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

var testCoins = []models.Coin{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: fp(64123.456), MarketCap: fp(1.26e12), MarketCapRank: ip(1), TotalVolume: fp(3.1e10), PriceChangePercentage24h: fp(2.5)},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: fp(3100), MarketCap: fp(3.7e11), MarketCapRank: ip(2), TotalVolume: fp(1.5e10), PriceChangePercentage24h: fp(-1.25)},
	{ID: "mystery", Symbol: "mys", Name: "Mystery"},
}

func run(t *testing.T, client *MockMarketData, args ...string) (string, error) {
	var buf bytes.Buffer
	root := newRootCmd(&app{client: client})
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCoinsCmd_Table(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchCoins", mock.Anything, 2, 100, models.SortVolumeDesc, "eur").Return(testCoins, nil).Once()

	got, err := run(t, client, "coins", "--page", "2", "--per-page", "100", "--sort", "volume_desc", "--currency", "eur")
	require.NoError(t, err)
	assert.Contains(t, got, "Bitcoin (BTC)")
	assert.Contains(t, got, "$64,123.46")
	assert.Contains(t, got, "+2.50%")
	assert.Contains(t, got, "-1.25%")
	assert.Contains(t, got, "$1.26T")
	assert.Contains(t, got, "N/A")
	client.AssertExpectations(t)
}

func TestCoinsCmd_SearchAndCSV(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchCoins", mock.Anything, 1, 50, models.SortMarketCapDesc, "usd").Return(testCoins, nil).Once()

	got, err := run(t, client, "coins", "--search", "ETH", "--csv")
	require.NoError(t, err)
	assert.Equal(t,
		"rank,id,symbol,name,current_price,market_cap,total_volume,price_change_percentage_1h,price_change_percentage_24h,price_change_percentage_7d\n"+
			"2,ethereum,eth,Ethereum,3100,370000000000,15000000000,,-1.25,\n",
		got)
}

func TestCoinsCmd_InvalidSortIssuesNoRequest(t *testing.T) {
	client := new(MockMarketData)
	_, err := run(t, client, "coins", "--sort", "rank_desc")
	assert.ErrorIs(t, err, models.ErrInvalidSortOrder)
	client.AssertNotCalled(t, "FetchCoins", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCoinsCmd_RateLimited(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchCoins", mock.Anything, 1, 50, models.SortMarketCapDesc, "usd").Return(nil, &coingecko.RateLimitError{}).Once()

	_, err := run(t, client, "coins")
	require.Error(t, err)
	assert.ErrorIs(t, err, coingecko.ErrRateLimited)
	assert.Contains(t, err.Error(), "Rate limit exceeded. Please try again later.")
}

func TestGlobalCmd(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchGlobal", mock.Anything, "usd").Return(&models.GlobalMarketData{Data: models.GlobalData{
		ActiveCryptocurrencies:          15000,
		Markets:                         1100,
		TotalMarketCap:                  map[string]float64{"usd": 2.4e12},
		TotalVolume:                     map[string]float64{"usd": 9e10},
		MarketCapPercentage:             map[string]float64{"btc": 52.1},
		MarketCapChangePercentage24hUSD: -0.5,
	}}, nil).Once()

	got, err := run(t, client, "global")
	require.NoError(t, err)
	assert.Contains(t, got, "2.40T")
	assert.Contains(t, got, "90.00B")
	assert.Contains(t, got, "-0.50%")
	assert.Contains(t, got, "+52.10%")
	assert.Contains(t, got, "15000")
}

func TestCategoriesCmd_OrdersAndLimits(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchCategories", mock.Anything).Return([]models.Category{
		{ID: "meme", Name: "Meme", MarketCap: fp(5e10), Top3Coins: []string{}},
		{ID: "unknown", Name: "Unknown", Top3Coins: []string{}},
		{ID: "layer-1", Name: "Layer 1", MarketCap: fp(2e12), Top3Coins: []string{}},
	}, nil).Once()

	got, err := run(t, client, "categories", "--limit", "2")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(got), []byte("Layer 1")), bytes.Index([]byte(got), []byte("Meme")))
	assert.NotContains(t, got, "Unknown")
}

func TestHighlightsCmd(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchCoins", mock.Anything, 1, 250, models.SortMarketCapDesc, "usd").Return(testCoins, nil)
	client.On("FetchCoins", mock.Anything, 1, 250, models.SortVolumeDesc, "usd").Return(testCoins, nil).Once()
	client.On("FetchCoins", mock.Anything, 1, 250, models.SortMarketCapAsc, "usd").Return(testCoins, nil).Once()

	got, err := run(t, client, "highlights")
	require.NoError(t, err)
	for _, title := range []string{"Trending Coins", "Top Gainers", "Top Losers", "New Coins", "Highest Volume"} {
		assert.Contains(t, got, title)
	}
	// trending, gainers and losers share the market-cap listing
	client.AssertNumberOfCalls(t, "FetchCoins", 3)
	client.AssertExpectations(t)

	got, err = run(t, client, "highlights", "--kind", "top_losers", "--rows", "1")
	require.NoError(t, err)
	assert.Contains(t, got, "Top Losers")
	assert.Contains(t, got, "ETH")
	assert.NotContains(t, got, "BTC")

	_, err = run(t, client, "highlights", "--kind", "most_viewed")
	assert.Error(t, err)
}

func TestHighlightsCmd_ListingPerKind(t *testing.T) {
	tests := []struct {
		kind  string
		order models.SortOrder
	}{
		{"highest_volume", models.SortVolumeDesc},
		{"new_coins", models.SortMarketCapAsc},
		{"top_gainers", models.SortMarketCapDesc},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			client := new(MockMarketData)
			client.On("FetchCoins", mock.Anything, 1, 250, tt.order, "usd").Return(testCoins, nil).Once()

			_, err := run(t, client, "highlights", "--kind", tt.kind)
			require.NoError(t, err)
			client.AssertExpectations(t)
		})
	}
}

// MockPingClient adds Ping to MockMarketData.
type MockPingClient struct {
	MockMarketData
}

func (m *MockPingClient) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestPingCmd(t *testing.T) {
	client := new(MockPingClient)
	client.On("Ping", mock.Anything).Return(nil).Once()

	var buf bytes.Buffer
	root := newRootCmd(&app{client: client})
	root.SetOut(&buf)
	root.SetArgs([]string{"ping"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "OK\n", buf.String())

	client.On("Ping", mock.Anything).Return(&coingecko.HTTPError{Status: 503}).Once()
	root = newRootCmd(&app{client: client})
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"ping"})
	err := root.Execute()
	var httpErr *coingecko.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)
	client.AssertExpectations(t)
}

func TestPingCmd_UnsupportedClient(t *testing.T) {
	_, err := run(t, new(MockMarketData), "ping")
	assert.ErrorContains(t, err, "does not support ping")
}

func TestTrendingCmd(t *testing.T) {
	client := new(MockMarketData)
	client.On("FetchTrending", mock.Anything).Return(&models.TrendingResponse{Coins: []models.TrendingCoin{
		{Item: models.TrendingItem{ID: "pepe", Name: "Pepe", Symbol: "pepe", MarketCapRank: ip(30), PriceBTC: 0.0000000002}},
	}}, nil).Once()

	got, err := run(t, client, "trending")
	require.NoError(t, err)
	assert.Contains(t, got, "Pepe (PEPE)")
	assert.Contains(t, got, "30")
}
