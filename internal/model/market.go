package model

import "time"

// Trend direction constants
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Candle is one OHLCV bar with precomputed moving averages
type Candle struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	SMAShort float64   `json:"sma_short"`
	SMALong  float64   `json:"sma_long"`
}

// MarketSnapshot is the view of recent market data handed to the
// dashboard and to strategy generation prompts
type MarketSnapshot struct {
	Pair        string    `json:"pair"`
	Candles     []Candle  `json:"candles"`
	LatestClose float64   `json:"latest_close"`
	Trend       string    `json:"trend"` // up, down, flat
	GeneratedAt time.Time `json:"generated_at"`
}
