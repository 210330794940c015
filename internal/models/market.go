package models

import "time"

// MarketPrice is the current price block of a quote snapshot.
type MarketPrice struct {
	LastSalePrice float64 `json:"last_sale_price"`
	BidPrice      float64 `json:"bid_price"`
	AskPrice      float64 `json:"ask_price"`
	NetChange     float64 `json:"net_change"`
	PercentChange float64 `json:"percent_change"`
	Timestamp     string  `json:"timestamp"`
}

// TradingVolume is the volume block of a quote snapshot.
type TradingVolume struct {
	CurrentVolume int64   `json:"current_volume"`
	BidSize       float64 `json:"bid_size"`
	AskSize       float64 `json:"ask_size"`
}

// PriceRange holds intraday and 52-week trading ranges.
type PriceRange struct {
	DailyLow         float64 `json:"daily_low"`
	DailyHigh        float64 `json:"daily_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
}

// MarketStatus describes the venue state of a quote snapshot.
type MarketStatus struct {
	Status     string `json:"status"`
	StockType  string `json:"stock_type"`
	Exchange   string `json:"exchange"`
	IsRealTime bool   `json:"is_real_time"`
}

// TechnicalData is a canonical point-in-time quote snapshot. Parsers fill
// unparsable numeric fields with zero values rather than failing the whole
// snapshot; partial data is preferable to no data.
type TechnicalData struct {
	Price  MarketPrice   `json:"price"`
	Volume TradingVolume `json:"volume"`
	Ranges PriceRange    `json:"ranges"`
	Status MarketStatus  `json:"status"`
}

// ForecastData is the unit returned to the caller of a forecast run.
type ForecastData struct {
	TechnicalAnalysis string    `json:"technical_analysis"`
	AIAnalysis        string    `json:"ai_analysis"`
	Timestamp         time.Time `json:"timestamp"`
	Symbol            string    `json:"symbol"`
}

// NewsItem is one parsed news article.
type NewsItem struct {
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

// DailyBar is the latest entry of a daily OHLCV series.
type DailyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CryptoQuote is a coin price snapshot from the crypto price feed.
type CryptoQuote struct {
	CoinID         string  `json:"coin_id"`
	PriceUSD       float64 `json:"price_usd"`
	MarketCapUSD   float64 `json:"market_cap_usd"`
	Volume24hUSD   float64 `json:"volume_24h_usd"`
	PriceChange24h float64 `json:"price_change_24h"`
}

// TrendingCoin is one entry of the trending-coins feed.
type TrendingCoin struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	PriceChange24h float64 `json:"price_change_24h"`
	Volume24h      float64 `json:"volume_24h"`
}
