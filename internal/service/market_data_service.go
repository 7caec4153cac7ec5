package service

import (
	"math/rand"
	"sync"
	"time"

	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/util"
)

const (
	candleInterval = time.Minute
	seriesLength   = 120 // candles kept in the rolling window
	smaShortPeriod = 7
	smaLongPeriod  = 25
	basePrice      = 30000.0
)

// MarketDataService synthesizes the OHLCV candle series shown on the
// dashboard and embedded in strategy generation prompts. Prices follow a
// bounded random walk; the series extends lazily whenever a snapshot is
// requested.
type MarketDataService struct {
	mu      sync.Mutex
	pair    string
	candles []model.Candle
	rng     *rand.Rand
	clock   Clock
}

// NewMarketDataService creates a generator for the given pair
func NewMarketDataService(pair string, clock Clock, rng *rand.Rand) *MarketDataService {
	if clock == nil {
		clock = systemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MarketDataService{
		pair:  pair,
		rng:   rng,
		clock: clock,
	}
}

// Snapshot returns the current candle window, latest close and overall
// trend direction
func (s *MarketDataService) Snapshot() model.MarketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().Truncate(candleInterval)
	s.extend(now)

	candles := make([]model.Candle, len(s.candles))
	copy(candles, s.candles)

	latest := candles[len(candles)-1]
	return model.MarketSnapshot{
		Pair:        s.pair,
		Candles:     candles,
		LatestClose: latest.Close,
		Trend:       trendOf(latest),
		GeneratedAt: s.clock.Now(),
	}
}

// extend appends candles up to the given bar time, seeding the full
// window on first use
func (s *MarketDataService) extend(until time.Time) {
	if len(s.candles) == 0 {
		start := until.Add(-time.Duration(seriesLength-1) * candleInterval)
		close := basePrice
		for t := start; !t.After(until); t = t.Add(candleInterval) {
			c := s.nextCandle(t, close)
			s.candles = append(s.candles, c)
			close = c.Close
		}
		s.recomputeAverages()
		return
	}

	last := s.candles[len(s.candles)-1]
	for t := last.Time.Add(candleInterval); !t.After(until); t = t.Add(candleInterval) {
		c := s.nextCandle(t, s.candles[len(s.candles)-1].Close)
		s.candles = append(s.candles, c)
	}
	if len(s.candles) > seriesLength {
		s.candles = s.candles[len(s.candles)-seriesLength:]
	}
	s.recomputeAverages()
}

func (s *MarketDataService) nextCandle(t time.Time, prevClose float64) model.Candle {
	// Bounded walk: up to 0.4% move per bar with a slight upward drift
	move := (s.rng.Float64() - 0.48) * 0.008 * prevClose
	close := util.Round2(prevClose + move)

	high := close
	low := prevClose
	if prevClose > close {
		high = prevClose
		low = close
	}
	spread := s.rng.Float64() * 0.001 * prevClose

	return model.Candle{
		Time:   t,
		Open:   prevClose,
		High:   util.Round2(high + spread),
		Low:    util.Round2(low - spread),
		Close:  close,
		Volume: util.Round2(10 + s.rng.Float64()*90),
	}
}

func (s *MarketDataService) recomputeAverages() {
	for i := range s.candles {
		s.candles[i].SMAShort = s.averageClose(i, smaShortPeriod)
		s.candles[i].SMALong = s.averageClose(i, smaLongPeriod)
	}
}

func (s *MarketDataService) averageClose(end, period int) float64 {
	start := end - period + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for i := start; i <= end; i++ {
		sum += s.candles[i].Close
	}
	return util.Round2(sum / float64(end-start+1))
}

func trendOf(c model.Candle) string {
	switch {
	case c.SMAShort > c.SMALong:
		return model.TrendUp
	case c.SMAShort < c.SMALong:
		return model.TrendDown
	default:
		return model.TrendFlat
	}
}
