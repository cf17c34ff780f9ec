package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lqviet/folio/internal/cache"
	"github.com/lqviet/folio/internal/models"
)

// Cache TTLs per data class. Quotes and historical series go stale within
// minutes; company profiles change on the order of filings, not trading days.
const (
	QuoteCacheTTL      = 5 * time.Minute
	ProfileCacheTTL    = 30 * 24 * time.Hour
	HistoricalCacheTTL = 5 * time.Minute
)

// MarketDataServiceImpl implements MarketDataService on top of an upstream
// provider and three injected TTL caches. All upstream failures are absorbed
// here: callers get nil/empty results, never an I/O error.
type MarketDataServiceImpl struct {
	provider        MarketDataProvider
	quoteCache      *cache.Cache[*models.Quote]
	profileCache    *cache.Cache[*models.CompanyProfile]
	historicalCache *cache.Cache[[]models.HistoricalPoint]
	logger          *zap.Logger
	now             func() time.Time
}

// NewMarketDataService creates a market data service with its own caches
func NewMarketDataService(provider MarketDataProvider, logger *zap.Logger) *MarketDataServiceImpl {
	return &MarketDataServiceImpl{
		provider:        provider,
		quoteCache:      cache.New[*models.Quote](QuoteCacheTTL),
		profileCache:    cache.New[*models.CompanyProfile](ProfileCacheTTL),
		historicalCache: cache.New[[]models.HistoricalPoint](HistoricalCacheTTL),
		logger:          logger,
		now:             time.Now,
	}
}

// GetQuote returns the cached or freshly fetched quote for a symbol.
// Unknown symbols and upstream failures both come back as (nil, nil).
func (s *MarketDataServiceImpl) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if cached, ok := s.quoteCache.Get(symbol); ok {
		return cached, nil
	}

	quote, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		s.logger.Warn("quote fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}
	if quote == nil {
		return nil, nil
	}

	s.quoteCache.Set(symbol, quote)
	return quote, nil
}

// GetQuotes returns quotes for all symbols it can resolve. Uncached symbols
// are fetched concurrently, one request per symbol; a failed fetch drops that
// symbol from the result instead of aborting the batch. Result order is not
// guaranteed to match input order.
func (s *MarketDataServiceImpl) GetQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error) {
	if len(symbols) == 0 {
		return []*models.Quote{}, nil
	}

	quotes := make([]*models.Quote, 0, len(symbols))
	var uncached []string
	for _, symbol := range symbols {
		if cached, ok := s.quoteCache.Get(symbol); ok {
			quotes = append(quotes, cached)
		} else {
			uncached = append(uncached, symbol)
		}
	}

	if len(uncached) == 0 {
		return quotes, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, symbol := range uncached {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			quote, err := s.provider.Quote(ctx, symbol)
			if err != nil {
				s.logger.Warn("quote fetch failed in batch",
					zap.String("symbol", symbol), zap.Error(err))
				return
			}
			if quote == nil {
				return
			}
			s.quoteCache.Set(symbol, quote)
			mu.Lock()
			quotes = append(quotes, quote)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return quotes, nil
}

// GetCompanyProfile returns cached or freshly fetched company metadata
func (s *MarketDataServiceImpl) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if cached, ok := s.profileCache.Get(symbol); ok {
		return cached, nil
	}

	profile, err := s.provider.Profile(ctx, symbol)
	if err != nil {
		s.logger.Warn("profile fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}
	if profile == nil {
		return nil, nil
	}

	s.profileCache.Set(symbol, profile)
	return profile, nil
}

// GetCompanyProfiles is the batch variant of GetCompanyProfile, with the same
// cache-first, concurrent-fetch, isolate-failures behavior as GetQuotes.
func (s *MarketDataServiceImpl) GetCompanyProfiles(ctx context.Context, symbols []string) ([]*models.CompanyProfile, error) {
	if len(symbols) == 0 {
		return []*models.CompanyProfile{}, nil
	}

	profiles := make([]*models.CompanyProfile, 0, len(symbols))
	var uncached []string
	for _, symbol := range symbols {
		if cached, ok := s.profileCache.Get(symbol); ok {
			profiles = append(profiles, cached)
		} else {
			uncached = append(uncached, symbol)
		}
	}

	if len(uncached) == 0 {
		return profiles, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, symbol := range uncached {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			profile, err := s.provider.Profile(ctx, symbol)
			if err != nil {
				s.logger.Warn("profile fetch failed in batch",
					zap.String("symbol", symbol), zap.Error(err))
				return
			}
			if profile == nil {
				return
			}
			s.profileCache.Set(symbol, profile)
			mu.Lock()
			profiles = append(profiles, profile)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return profiles, nil
}

// GetHistoricalPrices returns the closing-price series for a symbol within
// the requested lookback window, sorted ascending by date. Upstream failures
// and unknown symbols both yield an empty slice; only a malformed range is an
// error, since that is a caller bug rather than a data condition.
func (s *MarketDataServiceImpl) GetHistoricalPrices(ctx context.Context, symbol string, rng models.HistoricalRange) ([]models.HistoricalPoint, error) {
	days, err := rng.Days()
	if err != nil {
		return nil, err
	}

	key := symbol + "|" + string(rng)
	if cached, ok := s.historicalCache.Get(key); ok {
		return cached, nil
	}

	full, err := s.provider.HistoricalEOD(ctx, symbol)
	if err != nil {
		s.logger.Warn("historical fetch failed",
			zap.String("symbol", symbol), zap.String("range", string(rng)), zap.Error(err))
		return []models.HistoricalPoint{}, nil
	}

	cutoff := s.now().AddDate(0, 0, -days)
	windowed := make([]models.HistoricalPoint, 0, len(full))
	// Upstream returns newest first; filter to the window and reverse so the
	// series is chronologically ascending.
	for i := len(full) - 1; i >= 0; i-- {
		if full[i].Date.Before(cutoff) {
			continue
		}
		windowed = append(windowed, full[i])
	}

	s.historicalCache.Set(key, windowed)
	return windowed, nil
}

// GetMarketDataForSymbols resolves quotes for a batch of user-facing symbols.
// Symbols are normalized and deduplicated before the single batch fetch, and
// each result is mapped back to the original symbols the caller asked with.
// Two originals normalizing to the same canonical symbol share one upstream
// quote but each get their own tagged result; they name the same instrument,
// so this is expected, not an error.
func (s *MarketDataServiceImpl) GetMarketDataForSymbols(ctx context.Context, requests []models.MarketDataRequest) ([]models.MarketData, error) {
	if len(requests) == 0 {
		return []models.MarketData{}, nil
	}

	originalsBySymbol := make(map[string][]string, len(requests))
	normalized := make([]string, 0, len(requests))
	for _, req := range requests {
		symbol := NormalizeSymbol(req.Symbol, req.AssetType)
		if symbol == "" {
			continue
		}
		if _, seen := originalsBySymbol[symbol]; !seen {
			normalized = append(normalized, symbol)
		}
		originalsBySymbol[symbol] = append(originalsBySymbol[symbol], req.Symbol)
	}

	quotes, err := s.GetQuotes(ctx, normalized)
	if err != nil {
		return nil, err
	}

	results := make([]models.MarketData, 0, len(quotes))
	for _, quote := range quotes {
		originals := originalsBySymbol[quote.Symbol]
		if len(originals) == 0 {
			// Safe fallback; the mapping is built from the same normalization
			// GetQuotes keys on, so this should not happen.
			originals = []string{quote.Symbol}
		}
		for _, original := range originals {
			results = append(results, models.MarketData{
				Symbol:         quote.Symbol,
				OriginalSymbol: original,
				Price:          quote.Price,
				ChangePercent:  quote.ChangePercent,
				DayChange:      quote.DayChange,
			})
		}
	}

	return results, nil
}
