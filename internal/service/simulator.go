package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fleetwatch/backend/internal/config"
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/util"
	"fleetwatch/backend/pkg/logger"
)

// Clock abstracts wall-clock time so tests can drive ticks deterministically
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall-clock
func SystemClock() Clock { return systemClock{} }

// Relative-time labels for the last-trade display. Aging only ever moves
// forward through this sequence.
var lastTradeLabels = []string{
	"just now",
	"1 minute ago",
	"2 minutes ago",
	"5 minutes ago",
	"15 minutes ago",
	"30 minutes ago",
	"1 hour ago",
}

// Simulator advances simulated market exposure for every running bot on
// a fixed cadence. It is the only writer of bot metrics; it never writes
// history or alerts itself. Trade completions are reported through the
// OnTrade hook so the ledger formatting stays out of the random walk.
type Simulator struct {
	fleetRepo *repository.FleetRepository
	cfg       config.SimulatorConfig
	clock     Clock
	rng       *rand.Rand
	log       *logger.Logger

	onTrade func(botID string, profit float64)
	onTick  func()

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSimulator creates a simulator over the given fleet store
func NewSimulator(fleetRepo *repository.FleetRepository, cfg config.SimulatorConfig, clock Clock, rng *rand.Rand) *Simulator {
	if clock == nil {
		clock = systemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		fleetRepo: fleetRepo,
		cfg:       cfg,
		clock:     clock,
		rng:       rng,
		log:       logger.GetLogger(),
		stopChan:  make(chan struct{}),
	}
}

// SetTradeHook registers the trade-completion hook, invoked outside the
// store lock once per simulated fill
func (s *Simulator) SetTradeHook(fn func(botID string, profit float64)) {
	s.onTrade = fn
}

// SetTickListener registers a callback invoked after every completed tick
func (s *Simulator) SetTickListener(fn func()) {
	s.onTick = fn
}

// Start launches the recurring tick loop. The loop stops when ctx is
// cancelled or Stop is called; a tick in flight always completes, so no
// partial-tick state is ever left visible.
func (s *Simulator) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)

	go func() {
		defer ticker.Stop()
		s.log.Infof("Simulator started: interval=%s volatility=%.2f", s.cfg.TickInterval, s.cfg.MaxVolatility)

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Simulator stopped: context cancelled")
				return
			case <-s.stopChan:
				s.log.Info("Simulator stopped")
				return
			case <-ticker.C:
				s.Tick(s.clock.Now())
			}
		}
	}()
}

// Stop terminates the tick loop. Safe to call more than once.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

type tradeEvent struct {
	botID  string
	profit float64
}

// Tick applies one simulation step to every eligible bot. The whole
// step runs under the store's write lock, so readers observe either the
// previous tick or this one, never a mix. A malformed record is skipped
// and logged; it must not stall the rest of the fleet.
func (s *Simulator) Tick(now time.Time) {
	var trades []tradeEvent

	s.fleetRepo.ForEach(func(bot *model.Bot) {
		if !bot.IsRunning() {
			return
		}
		if bot.CapitalBase <= 0 {
			s.log.Warnf("Skipping bot %s: invalid capital base %.2f", bot.ID, bot.CapitalBase)
			return
		}

		magnitude := s.rng.Float64() * s.cfg.MaxVolatility
		if s.rng.Float64() >= s.cfg.UpProbability {
			magnitude = -magnitude
		}

		previous := bot.PnL
		bot.PnL = util.Round2(bot.PnL + magnitude)
		bot.PnLPercent = util.Round2(bot.PnL / bot.CapitalBase * 100)

		if s.rng.Float64() < s.cfg.TradeProbability {
			bot.TradeCount++
			bot.LastTrade = lastTradeLabels[0]
			bot.LastActivityAt = now
			trades = append(trades, tradeEvent{botID: bot.ID, profit: util.Round2(bot.PnL - previous)})
		} else if s.rng.Float64() < s.cfg.AgeProbability {
			bot.LastTrade = nextTradeLabel(bot.LastTrade)
		}

		bot.UpdatedAt = now
	})

	// Hooks run after the lock is released; they append ledger entries
	// through the store themselves.
	if s.onTrade != nil {
		for _, ev := range trades {
			s.onTrade(ev.botID, ev.profit)
		}
	}
	if s.onTick != nil {
		s.onTick()
	}
}

// nextTradeLabel advances a label one step through the aging sequence.
// The terminal label and unknown labels stay put.
func nextTradeLabel(current string) string {
	if current == "" {
		return lastTradeLabels[0]
	}
	for i, label := range lastTradeLabels {
		if label == current {
			if i == len(lastTradeLabels)-1 {
				return current
			}
			return lastTradeLabels[i+1]
		}
	}
	return current
}
