package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"coin-dashboard-go/internal/config"
	"coin-dashboard-go/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	apiKeyParam    = "x_cg_demo_api_key"
	maxPerPage     = 250
	userAgent      = "coin-dashboard-go/1.0"
)

// MarketData defines the market-data operations the dashboard depends on.
type MarketData interface {
	FetchCoins(ctx context.Context, page, perPage int, order models.SortOrder, currency string) ([]models.Coin, error)
	FetchGlobal(ctx context.Context, currency string) (*models.GlobalMarketData, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchTrending(ctx context.Context) (*models.TrendingResponse, error)
}

// RestClient is a client for the CoinGecko REST API.
// Every call is exactly one request; retry policy belongs to the caller.
type RestClient struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

// ensure RestClient implements the interface
var _ MarketData = (*RestClient)(nil)

// NewRestClient creates a new CoinGecko REST API client.
func NewRestClient(cfg *config.CoinGecko, logger *zap.Logger) *RestClient {
	url := cfg.BaseURL
	if url == "" {
		url = defaultBaseURL
	}
	logger = logger.Named("coingecko")
	if cfg.ApiKey == "" {
		logger.Info("Using public market data API without key", zap.String("base_url", url))
	} else {
		logger.Info("Using market data API with demo key", zap.String("base_url", url))
	}

	client := resty.New().
		SetBaseURL(url).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if cfg.TimeoutSec > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSec) * time.Second)
	}

	// rate.Limit is requests per second; a non-positive limit disables throttling.
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return &RestClient{
		client:  client,
		apiKey:  cfg.ApiKey,
		logger:  logger,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// doRequest waits for the limiter, issues a single GET and decodes the
// body into result. Failures are mapped onto the client error taxonomy.
func (c *RestClient) doRequest(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Err: fmt.Errorf("rate limiter wait failed: %w", err)}
	}

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if c.apiKey != "" {
		req.SetQueryParam(apiKeyParam, c.apiKey)
	}

	c.logger.Debug("Executing request", zap.String("endpoint", endpoint), zap.Any("params", params))
	start := c.now()
	resp, err := req.Get(endpoint)
	if err != nil {
		return &NetworkError{Err: err}
	}

	c.logger.Debug("Received response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", c.now().Sub(start)),
	)

	if !resp.IsSuccess() {
		return statusError(resp)
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func statusError(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusTooManyRequests {
		rl := &RateLimitError{}
		if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil && seconds > 0 {
			rl.RetryAfter = time.Duration(seconds) * time.Second
		}
		return rl
	}
	body := resp.String()
	if len(body) > 512 {
		body = body[:512]
	}
	return &HTTPError{Status: resp.StatusCode(), Body: body}
}

// Ping checks connectivity with the /ping endpoint.
func (c *RestClient) Ping(ctx context.Context) error {
	var pong struct {
		GeckoSays string `json:"gecko_says"`
	}
	if err := c.doRequest(ctx, "/ping", nil, &pong); err != nil {
		return fmt.Errorf("failed to ping market data API: %w", err)
	}
	if pong.GeckoSays == "" {
		return fmt.Errorf("failed to ping market data API: %w",
			&DecodeError{Endpoint: "/ping", Err: fmt.Errorf("empty gecko_says")})
	}
	return nil
}

// FetchCoins fetches one page of the coin listing, sorted server-side.
func (c *RestClient) FetchCoins(ctx context.Context, page, perPage int, order models.SortOrder, currency string) ([]models.Coin, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("failed to fetch coins: %w: %q", models.ErrInvalidSortOrder, order)
	}
	if page < 1 || perPage < 1 || perPage > maxPerPage {
		return nil, fmt.Errorf("failed to fetch coins: %w: page=%d per_page=%d", ErrInvalidParams, page, perPage)
	}
	if currency == "" {
		return nil, fmt.Errorf("failed to fetch coins: %w: empty currency", ErrInvalidParams)
	}

	params := map[string]string{
		"vs_currency":             currency,
		"order":                   string(order),
		"per_page":                strconv.Itoa(perPage),
		"page":                    strconv.Itoa(page),
		"sparkline":               "true",
		"price_change_percentage": "1h,24h,7d",
	}

	var coins []models.Coin
	if err := c.doRequest(ctx, "/coins/markets", params, &coins); err != nil {
		return nil, fmt.Errorf("failed to fetch coins: %w", err)
	}
	if coins == nil {
		coins = []models.Coin{}
	}
	return coins, nil
}

// FetchGlobal fetches aggregate market figures. The endpoint always returns
// every currency; currency only decides which figures callers read.
func (c *RestClient) FetchGlobal(ctx context.Context, currency string) (*models.GlobalMarketData, error) {
	var global models.GlobalMarketData
	if err := c.doRequest(ctx, "/global", nil, &global); err != nil {
		return nil, fmt.Errorf("failed to fetch global data: %w", err)
	}
	if _, ok := global.TotalMarketCapIn(currency); !ok {
		c.logger.Debug("Global data has no figures for currency", zap.String("currency", currency))
	}
	return &global, nil
}

// categoryPayload is the wire shape of a category; optional fields are
// pointers so ingestion can tell missing from zero.
type categoryPayload struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MarketCap          *float64 `json:"market_cap"`
	MarketCapChange24h *float64 `json:"market_cap_change_24h"`
	Content            string   `json:"content"`
	Top3Coins          []string `json:"top_3_coins"`
	Volume24h          *float64 `json:"volume_24h"`
	UpdatedAt          *string  `json:"updated_at"`
}

// FetchCategories fetches every category, applying defaults for omitted fields.
func (c *RestClient) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var payload []categoryPayload
	if err := c.doRequest(ctx, "/coins/categories", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := make([]models.Category, 0, len(payload))
	for _, p := range payload {
		cat, err := normalizeCategory(p, c.now())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch categories: %w",
				&DecodeError{Endpoint: "/coins/categories", Err: err})
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func normalizeCategory(p categoryPayload, now time.Time) (models.Category, error) {
	cat := models.Category{
		ID:        p.ID,
		Name:      p.Name,
		MarketCap: p.MarketCap,
		Content:   p.Content,
		Top3Coins: p.Top3Coins,
		UpdatedAt: now.UTC(),
	}
	if cat.Top3Coins == nil {
		cat.Top3Coins = []string{}
	}
	if p.MarketCapChange24h != nil {
		cat.MarketCapChange24h = *p.MarketCapChange24h
	}
	if p.Volume24h != nil {
		cat.Volume24h = *p.Volume24h
	}
	if p.UpdatedAt != nil && *p.UpdatedAt != "" {
		t, err := time.Parse(time.RFC3339, *p.UpdatedAt)
		if err != nil {
			return models.Category{}, fmt.Errorf("category %q: bad updated_at: %w", p.ID, err)
		}
		cat.UpdatedAt = t
	}
	return cat, nil
}

// FetchTrending fetches the trending search list.
func (c *RestClient) FetchTrending(ctx context.Context) (*models.TrendingResponse, error) {
	var trending models.TrendingResponse
	if err := c.doRequest(ctx, "/search/trending", nil, &trending); err != nil {
		return nil, fmt.Errorf("failed to fetch trending coins: %w", err)
	}
	return &trending, nil
}
