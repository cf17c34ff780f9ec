package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lqviet/folio/internal/models"
)

const (
	defaultFMPBaseURL = "https://financialmodelingprep.com/stable"

	fmpRequestTimeout = 10 * time.Second
	fmpMaxRetries     = 2
	fmpRetryBackoff   = time.Second
)

// apiError is a non-2xx response from the market-data provider
type apiError struct {
	StatusCode int
	Body       []byte
}

func (e *apiError) Error() string {
	return fmt.Sprintf("market data api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FMPClient talks to the Financial Modeling Prep REST API. Every call goes
// through a bounded-timeout HTTP client and a linear-backoff retry loop;
// exhausted retries surface the last error to the caller, which is expected
// to fail soft (market data is enrichment, never critical path).
type FMPClient struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	logger       *zap.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// NewFMPClient creates a client for the given API key. An empty baseURL uses
// the production endpoint; tests point it at an httptest server.
func NewFMPClient(apiKey, baseURL string, logger *zap.Logger) *FMPClient {
	if baseURL == "" {
		baseURL = defaultFMPBaseURL
	}
	return &FMPClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: fmpRequestTimeout},
		logger:       logger,
		maxRetries:   fmpMaxRetries,
		retryBackoff: fmpRetryBackoff,
	}
}

// fmpQuote is the upstream quote shape. Optional fields default to zero.
type fmpQuote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	ChangePercentage float64 `json:"changePercentage"`
	Change           float64 `json:"change"`
}

// fmpProfile is the upstream company profile shape
type fmpProfile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Country     string  `json:"country"`
	MarketCap   float64 `json:"marketCap"`
}

// fmpHistoricalPoint is one end-of-day bar, newest first in the response
type fmpHistoricalPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Quote fetches the current quote for a symbol. A symbol unknown to the
// provider comes back as an empty array and yields (nil, nil).
func (c *FMPClient) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var payload []fmpQuote
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	q := payload[0]
	out := &models.Quote{
		Symbol:        q.Symbol,
		Price:         decimal.NewFromFloat(q.Price),
		ChangePercent: decimal.NewFromFloat(q.ChangePercentage),
		DayChange:     decimal.NewFromFloat(q.Change),
	}
	if out.Symbol == "" {
		out.Symbol = symbol
	}
	return out, nil
}

// Profile fetches company metadata for a symbol; (nil, nil) when unknown
func (c *FMPClient) Profile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var payload []fmpProfile
	if err := c.get(ctx, "/profile", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	p := payload[0]
	out := &models.CompanyProfile{
		Symbol:      p.Symbol,
		CompanyName: p.CompanyName,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Country:     p.Country,
		MarketCap:   decimal.NewFromFloat(p.MarketCap),
	}
	if out.Symbol == "" {
		out.Symbol = symbol
	}
	return out, nil
}

// HistoricalEOD fetches the full end-of-day price history for a symbol,
// in the provider's newest-first order. Callers window and reverse it.
func (c *FMPClient) HistoricalEOD(ctx context.Context, symbol string) ([]models.HistoricalPoint, error) {
	var payload []fmpHistoricalPoint
	if err := c.get(ctx, "/historical-price-eod/full", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}

	points := make([]models.HistoricalPoint, 0, len(payload))
	for _, p := range payload {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			c.logger.Debug("skipping historical point with bad date",
				zap.String("symbol", symbol), zap.String("date", p.Date))
			continue
		}
		points = append(points, models.HistoricalPoint{
			Date:  date,
			Close: decimal.NewFromFloat(p.Close),
		})
	}
	return points, nil
}

// get performs a GET with retries and decodes the JSON response
func (c *FMPClient) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// doWithRetry retries failed requests with linearly increasing backoff
// (1s, 2s). Any transport error or non-2xx status counts as a failure.
func (c *FMPClient) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 {
			backoff := c.retryBackoff * time.Duration(attempt-1)
			c.logger.Debug("retrying market data request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.String("path", path))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *FMPClient) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}
	fullURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apiError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}
