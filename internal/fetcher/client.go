package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "signal-scanner/internal/platform/http"
	"signal-scanner/models"
)

const (
	// DefaultBaseURL points at the Twelve Data REST API.
	DefaultBaseURL = "https://api.twelvedata.com"

	DefaultCandleCount = 100
	DefaultPriceTTL    = 30 * time.Second
	DefaultCandleTTL   = 60 * time.Second
)

// Native fetch multipliers for the frames aggregated client-side: four H1
// bars per H4 bar, three M1 bars per M3 bar.
const (
	h1Multiple = 4
	m1Multiple = 3
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	CandleCount     int
	PriceTTL        time.Duration
	CandleTTL       time.Duration
}

// Client fetches candles and prices with rate limiting, retry and short
// TTL caches keyed per request. It is safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *platformhttp.Client
	candleCount int
	priceTTL    time.Duration
	candleTTL   time.Duration
	logger      zerolog.Logger

	mu          sync.RWMutex
	candleCache map[string]cachedCandles
	priceCache  map[string]cachedPrice
	now         func() time.Time
}

type cachedCandles struct {
	candles   []models.Candle
	fetchedAt time.Time
}

type cachedPrice struct {
	price     float64
	fetchedAt time.Time
}

// New creates a data client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CandleCount == 0 {
		opts.CandleCount = DefaultCandleCount
	}
	if opts.PriceTTL == 0 {
		opts.PriceTTL = DefaultPriceTTL
	}
	if opts.CandleTTL == 0 {
		opts.CandleTTL = DefaultCandleTTL
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:         opts.RequestTimeout,
			RequestsPerSec:  opts.RequestsPerSec,
			MaxRetryTimeout: opts.MaxRetryTimeout,
		}),
		candleCount: opts.CandleCount,
		priceTTL:    opts.PriceTTL,
		candleTTL:   opts.CandleTTL,
		logger:      log.With().Str("component", "fetcher").Logger(),
		candleCache: make(map[string]cachedCandles),
		priceCache:  make(map[string]cachedPrice),
		now:         time.Now,
	}
}

var _ models.CandleSource = (*Client)(nil)

// GetCandles fetches count candles for one symbol and interval, oldest
// first. Responses are cached for the candle TTL. Callers must not mutate
// the returned slice.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	key := fmt.Sprintf("%s|%s|%d", symbol, interval, count)
	if candles, ok := c.cachedCandlesFor(key); ok {
		return candles, nil
	}

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("count", count).Msg("Fetching candles")

	url := fmt.Sprintf("%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL, symbol, interval, count, c.apiKey)
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Data API error")
		return nil, fmt.Errorf("data API error: %s", string(body))
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty data returned for %s %s", symbol, interval)
	}

	// Oldest first for index-based structure analysis.
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	candles := make([]models.Candle, 0, len(data.Values))
	for _, v := range data.Values {
		ts, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, fmt.Errorf("parsing candle datetime: %w", err)
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      v.Open,
			High:      v.High,
			Low:       v.Low,
			Close:     v.Close,
			Volume:    v.Volume,
		})
	}

	c.storeCandles(key, candles)
	return candles, nil
}

// GetPrice fetches the live price for one symbol, cached for the price TTL.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	if price, ok := c.cachedPriceFor(symbol); ok {
		return price, nil
	}

	url := fmt.Sprintf("%s/price?symbol=%s&apikey=%s", c.baseURL, symbol, c.apiKey)
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return 0, err
	}

	if strings.Contains(string(body), `"status":"error"`) {
		return 0, fmt.Errorf("data API error: %s", string(body))
	}

	var data priceResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.Price == 0 {
		return 0, fmt.Errorf("no price returned for %s", symbol)
	}

	c.storePrice(symbol, data.Price)
	return data.Price, nil
}

// FetchAll pulls every timeframe the engine may select for one instrument.
// H4 and H2 are aggregated from H1, M3 from M1.
func (c *Client) FetchAll(ctx context.Context, symbol string) (*models.MultiTimeframeData, error) {
	data := &models.MultiTimeframeData{Instrument: symbol, FetchedAt: c.now()}

	native := []struct {
		interval string
		count    int
		dst      *[]models.Candle
	}{
		{models.Interval1Day, c.candleCount, &data.D1},
		{models.Interval1H, h1Multiple * c.candleCount, &data.H1},
		{models.Interval30Min, c.candleCount, &data.M30},
		{models.Interval15Min, c.candleCount, &data.M15},
		{models.Interval5Min, c.candleCount, &data.M5},
		{models.Interval1Min, m1Multiple * c.candleCount, &data.M1},
	}
	for _, n := range native {
		candles, err := c.GetCandles(ctx, symbol, n.interval, n.count)
		if err != nil {
			return nil, fmt.Errorf("fetching %s %s: %w", symbol, n.interval, err)
		}
		*n.dst = candles
	}

	data.H4 = AggregateCandles(data.H1, h1Multiple)
	data.H2 = AggregateCandles(data.H1, 2)
	data.M3 = AggregateCandles(data.M1, m1Multiple)

	price, err := c.GetPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching %s price: %w", symbol, err)
	}
	data.CurrentPrice = price

	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

func (c *Client) cachedCandlesFor(key string) ([]models.Candle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.candleCache[key]
	if !ok || c.now().Sub(entry.fetchedAt) > c.candleTTL {
		return nil, false
	}
	return entry.candles, true
}

func (c *Client) storeCandles(key string, candles []models.Candle) {
	c.mu.Lock()
	c.candleCache[key] = cachedCandles{candles: candles, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *Client) cachedPriceFor(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.priceCache[symbol]
	if !ok || c.now().Sub(entry.fetchedAt) > c.priceTTL {
		return 0, false
	}
	return entry.price, true
}

func (c *Client) storePrice(symbol string, price float64) {
	c.mu.Lock()
	c.priceCache[symbol] = cachedPrice{price: price, fetchedAt: c.now()}
	c.mu.Unlock()
}
