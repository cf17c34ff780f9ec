package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *FMPClient {
	c := NewFMPClient("test-key", baseURL, zap.NewNop())
	c.retryBackoff = time.Millisecond
	return c
}

func TestFMPClient_Quote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		json.NewEncoder(w).Encode([]map[string]interface{}{{
			"symbol":           "AAPL",
			"price":            150.25,
			"changePercentage": 1.2,
			"change":           1.8,
		}})
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(150.25)))
	assert.True(t, quote.ChangePercent.Equal(decimal.NewFromFloat(1.2)))
	assert.True(t, quote.DayChange.Equal(decimal.NewFromFloat(1.8)))
}

// Missing optional fields default to zero values rather than failing
func TestFMPClient_QuoteMissingFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{{"price": 42.0}})
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).Quote(context.Background(), "XYZ")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "XYZ", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(42)))
	assert.True(t, quote.ChangePercent.IsZero())
	assert.True(t, quote.DayChange.IsZero())
}

// An empty upstream array is a valid "unknown symbol" outcome, not an error
func TestFMPClient_QuoteUnknownSymbol(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).Quote(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestFMPClient_Profile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{{
			"symbol":      "AAPL",
			"companyName": "Apple Inc.",
			"sector":      "Technology",
			"industry":    "Consumer Electronics",
			"country":     "US",
			"marketCap":   2.5e12,
		}})
	}))
	defer ts.Close()

	profile, err := newTestClient(ts.URL).Profile(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Apple Inc.", profile.CompanyName)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Equal(t, "US", profile.Country)
}

func TestFMPClient_HistoricalEOD(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical-price-eod/full", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"date": "2025-06-03", "close": 152.0},
			{"date": "2025-06-02", "close": 151.0},
			{"date": "not-a-date", "close": 1.0},
			{"date": "2025-06-01", "close": 150.0},
		})
	}))
	defer ts.Close()

	points, err := newTestClient(ts.URL).HistoricalEOD(context.Background(), "AAPL")
	require.NoError(t, err)
	// Provider order (newest first) is preserved; the bad date row is skipped
	require.Len(t, points, 3)
	assert.Equal(t, "2025-06-03", points[0].Date.Format("2006-01-02"))
	assert.True(t, points[2].Close.Equal(decimal.NewFromInt(150)))
}

func TestFMPClient_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{{"symbol": "AAPL", "price": 1.0}})
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFMPClient_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Quote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	// 1 initial attempt + 2 retries
	assert.Equal(t, int32(3), calls.Load())
}
