package service_test

import (
	"math/rand"
	"testing"
	"time"

	"fleetwatch/backend/internal/config"
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives simulated time deterministically in tests
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testSimConfig() config.SimulatorConfig {
	return config.SimulatorConfig{
		TickInterval:     1500 * time.Millisecond,
		MaxVolatility:    8,
		UpProbability:    0.55,
		TradeProbability: 0.05,
		AgeProbability:   0.10,
		CapitalBase:      10000,
	}
}

func seededBot(id, status string) *model.Bot {
	return &model.Bot{
		ID:          id,
		Name:        "Bot " + id,
		Status:      status,
		CapitalBase: 10000,
		LastTrade:   "just now",
	}
}

func TestTickSkipsNonRunningBots(t *testing.T) {
	repo := repository.NewFleetRepository()
	paused := seededBot("p", model.BotStatusPaused)
	paused.PnL = 42.5
	paused.PnLPercent = 0.43
	paused.TradeCount = 7
	stopped := seededBot("s", model.BotStatusStopped)
	stopped.PnL = -13.37
	repo.Insert(paused)
	repo.Insert(stopped)

	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, testSimConfig(), clock, rand.New(rand.NewSource(1)))

	for i := 0; i < 50; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)
	}

	got := repo.Get("p")
	assert.Equal(t, 42.5, got.PnL)
	assert.Equal(t, 0.43, got.PnLPercent)
	assert.Equal(t, 7, got.TradeCount)
	assert.Equal(t, "just now", got.LastTrade)

	assert.Equal(t, -13.37, repo.Get("s").PnL)
}

func TestTradeCountNeverDecreases(t *testing.T) {
	repo := repository.NewFleetRepository()
	repo.Insert(seededBot("a", model.BotStatusRunning))

	cfg := testSimConfig()
	cfg.TradeProbability = 0.5
	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, cfg, clock, rand.New(rand.NewSource(2)))

	prev := 0
	for i := 0; i < 200; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)

		count := repo.Get("a").TradeCount
		require.GreaterOrEqual(t, count, prev)
		prev = count
	}
	assert.Greater(t, prev, 0)
}

func TestPnLPercentDerivedFromPnL(t *testing.T) {
	repo := repository.NewFleetRepository()
	bot := seededBot("a", model.BotStatusRunning)
	bot.CapitalBase = 25000
	repo.Insert(bot)

	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, testSimConfig(), clock, rand.New(rand.NewSource(3)))

	for i := 0; i < 100; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)

		got := repo.Get("a")
		assert.Equal(t, util.Round2(got.PnL/got.CapitalBase*100), got.PnLPercent)
	}
}

func TestMalformedBotSkippedWithoutStallingFleet(t *testing.T) {
	repo := repository.NewFleetRepository()
	broken := seededBot("broken", model.BotStatusRunning)
	broken.CapitalBase = 0
	healthy := seededBot("healthy", model.BotStatusRunning)
	repo.Insert(broken)
	repo.Insert(healthy)

	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, testSimConfig(), clock, rand.New(rand.NewSource(4)))

	for i := 0; i < 20; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)
	}

	assert.Zero(t, repo.Get("broken").PnL)
	assert.NotZero(t, repo.Get("healthy").PnL)
}

func TestTradeHookReceivesFills(t *testing.T) {
	repo := repository.NewFleetRepository()
	repo.Insert(seededBot("a", model.BotStatusRunning))

	cfg := testSimConfig()
	cfg.TradeProbability = 1 // force a fill every tick
	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, cfg, clock, rand.New(rand.NewSource(5)))

	var fills []string
	sim.SetTradeHook(func(botID string, profit float64) {
		fills = append(fills, botID)
	})

	for i := 0; i < 10; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)
	}

	assert.Len(t, fills, 10)
	got := repo.Get("a")
	assert.Equal(t, 10, got.TradeCount)
	assert.Equal(t, "just now", got.LastTrade)
	assert.Equal(t, clock.Now().Add(-1500*time.Millisecond), got.LastActivityAt)
}

func TestLastTradeLabelAgesForwardOnly(t *testing.T) {
	repo := repository.NewFleetRepository()
	repo.Insert(seededBot("a", model.BotStatusRunning))

	cfg := testSimConfig()
	cfg.TradeProbability = 0 // never trade
	cfg.AgeProbability = 1   // always age
	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, cfg, clock, rand.New(rand.NewSource(6)))

	labels := []string{}
	for i := 0; i < 10; i++ {
		sim.Tick(clock.Now())
		clock.Advance(1500 * time.Millisecond)
		labels = append(labels, repo.Get("a").LastTrade)
	}

	expected := []string{
		"1 minute ago",
		"2 minutes ago",
		"5 minutes ago",
		"15 minutes ago",
		"30 minutes ago",
		"1 hour ago",
		"1 hour ago",
		"1 hour ago",
		"1 hour ago",
		"1 hour ago",
	}
	assert.Equal(t, expected, labels)
}

func TestTickListenerFiresAfterEveryTick(t *testing.T) {
	repo := repository.NewFleetRepository()
	repo.Insert(seededBot("a", model.BotStatusRunning))

	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	sim := service.NewSimulator(repo, testSimConfig(), clock, rand.New(rand.NewSource(7)))

	ticks := 0
	sim.SetTickListener(func() { ticks++ })

	for i := 0; i < 5; i++ {
		sim.Tick(clock.Now())
	}
	assert.Equal(t, 5, ticks)
}
