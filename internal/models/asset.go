package models

import "strings"

// AssetClass partitions every symbol into exactly one of two classes.
type AssetClass int

const (
	Equity AssetClass = iota
	Cryptocurrency
)

func (c AssetClass) String() string {
	if c == Cryptocurrency {
		return "cryptocurrency"
	}
	return "equity"
}

// AvailableStocks maps supported ticker symbols to company names. The chat
// dispatch tool recognizes symbols or company names from this table.
var AvailableStocks = map[string]string{
	"AAPL": "Apple",
	"GOOG": "Google",
	"MSFT": "Microsoft",
	"AMZN": "Amazon",
	"TSLA": "Tesla",
	"META": "Meta",
	"NVDA": "NVIDIA",
	"AMD":  "AMD",
	"INTC": "Intel",
	"NFLX": "Netflix",
	"SPOT": "Spotify",
	"ORCL": "Oracle",
	"CSCO": "Cisco",
	"BTC":  "Bitcoin",
	"ETH":  "Ethereum",
	"XRP":  "Ripple",
}

// CryptoCurrencies maps supported crypto ticker symbols to coin names.
// Membership in this table is what classifies a symbol as a cryptocurrency.
var CryptoCurrencies = map[string]string{
	"BTC":  "Bitcoin",
	"ETH":  "Ethereum",
	"XRP":  "Ripple",
	"USDT": "Tether",
	"BNB":  "Binance Coin",
	"ADA":  "Cardano",
	"SOL":  "Solana",
	"DOT":  "Polkadot",
	"DOGE": "Dogecoin",
	"AVAX": "Avalanche",
}

// coinIDs maps crypto ticker symbols to the coin identifiers used by the
// crypto price feed.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"XRP":  "ripple",
	"USDT": "tether",
	"BNB":  "binancecoin",
	"ADA":  "cardano",
	"SOL":  "solana",
	"DOT":  "polkadot",
	"DOGE": "dogecoin",
	"AVAX": "avalanche-2",
}

// Classify maps a symbol to its asset class. The mapping is total and
// deterministic: symbols in the fixed crypto table are cryptocurrencies,
// everything else is an equity. No external lookup is performed.
func Classify(symbol string) AssetClass {
	if _, ok := CryptoCurrencies[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return Cryptocurrency
	}
	return Equity
}

// CoinID returns the price-feed coin identifier for a crypto symbol.
// The second return is false for symbols outside the crypto table.
func CoinID(symbol string) (string, bool) {
	id, ok := coinIDs[strings.ToUpper(strings.TrimSpace(symbol))]
	return id, ok
}
