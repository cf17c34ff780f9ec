package services

import (
	"strings"

	"github.com/lqviet/folio/internal/models"
)

// quoteSuffix is the quote-currency suffix the upstream provider expects on
// crypto and commodity pairs (e.g. BTCUSD, XAUUSD).
const quoteSuffix = "USD"

// knownCryptoSymbols covers user-entered tickers that should be treated as
// crypto even when the asset type is not provided.
var knownCryptoSymbols = map[string]bool{
	"BTC":   true,
	"ETH":   true,
	"SOL":   true,
	"ADA":   true,
	"AVAX":  true,
	"DOT":   true,
	"MATIC": true,
	"ATOM":  true,
	"NEAR":  true,
	"ALGO":  true,
	"BNB":   true,
	"UNI":   true,
	"LINK":  true,
	"AAVE":  true,
	"XRP":   true,
	"LTC":   true,
	"DOGE":  true,
	"SHIB":  true,
	"APT":   true,
	"ARB":   true,
	"OP":    true,
	"USDT":  true,
	"USDC":  true,
}

// commodityAliases maps user-entered commodity names to canonical provider
// tickers. Keys are case-sensitive on purpose: these are the exact spellings
// observed in user input, not a case-folded lookup.
var commodityAliases = map[string]string{
	"gold":   "XAUUSD",
	"Gold":   "XAUUSD",
	"GOLD":   "XAUUSD",
	"XAU":    "XAUUSD",
	"xau":    "XAUUSD",
	"silver": "XAGUSD",
	"Silver": "XAGUSD",
	"SILVER": "XAGUSD",
	"XAG":    "XAGUSD",
	"xag":    "XAGUSD",
}

// NormalizeSymbol maps a user-facing symbol to the canonical form the upstream
// provider expects. Pure function, no I/O.
//
// Crypto symbols (by asset type or known-symbol set) get the USD quote suffix,
// stripping any existing suffix first so an already-suffixed symbol is not
// doubled. Commodity aliases map through the alias table. Everything else is
// uppercased unchanged.
func NormalizeSymbol(symbol string, assetType models.AssetType) string {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)

	base := strings.TrimSuffix(upper, quoteSuffix)
	if assetType == models.AssetTypeCrypto || knownCryptoSymbols[base] {
		return base + quoteSuffix
	}

	if canonical, ok := commodityAliases[trimmed]; ok {
		return canonical
	}

	return upper
}
