package service_test

import (
	"testing"
	"time"

	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture(clock service.Clock) (*service.FleetQueryService, *repository.FleetRepository) {
	repo := repository.NewFleetRepository()
	return service.NewFleetQueryService(repo, service.NewAlertEvaluator(), clock), repo
}

func fleetBot(id, name, status string, pnl float64, started time.Time) *model.Bot {
	return &model.Bot{
		ID:             id,
		Name:           name,
		Status:         status,
		CapitalBase:    10000,
		PnL:            pnl,
		StartedAt:      started,
		LastActivityAt: started,
	}
}

func TestListFiltersByStatusAndSearch(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("a", "Momentum Alpha", model.BotStatusRunning, 10, now))
	repo.Insert(fleetBot("b", "Grid Runner", model.BotStatusPaused, -5, now))
	repo.Insert(fleetBot("c", "Mean Reverter", model.BotStatusRunning, 3, now))

	running := svc.List(service.ListOptions{Status: model.BotStatusRunning})
	require.Len(t, running, 2)
	for _, bot := range running {
		assert.Equal(t, model.BotStatusRunning, bot.Status)
	}

	// Search is case-insensitive and matches name or id
	byName := svc.List(service.ListOptions{Search: "grid"})
	require.Len(t, byName, 1)
	assert.Equal(t, "b", byName[0].ID)

	byID := svc.List(service.ListOptions{Search: "C"})
	require.Len(t, byID, 1)
	assert.Equal(t, "c", byID[0].ID)
}

func TestListStatusPlusSearchCanBeEmpty(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("a", "Momentum Alpha", model.BotStatusRunning, 10, now))
	repo.Insert(fleetBot("b", "Grid Runner", model.BotStatusPaused, -5, now))

	// The name only exists among paused bots, so the running filter
	// yields nothing. Empty is a valid result, never an error.
	got := svc.List(service.ListOptions{Status: model.BotStatusRunning, Search: "Grid"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListStatusAllPassesEverything(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("a", "Alpha", model.BotStatusRunning, 0, now))
	repo.Insert(fleetBot("b", "Beta", model.BotStatusStopped, 0, now))

	assert.Len(t, svc.List(service.ListOptions{Status: "all"}), 2)
	assert.Len(t, svc.List(service.ListOptions{Status: "ALL"}), 2)
}

func TestSortByPnLIsIdempotentAndStable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	// "tie-1" and "tie-2" share a PnL; newest-first fleet order puts
	// tie-2 ahead of tie-1, and a stable sort must keep it there.
	repo.Insert(fleetBot("low", "Low", model.BotStatusRunning, -4, now))
	repo.Insert(fleetBot("tie-1", "Tie One", model.BotStatusRunning, 7, now))
	repo.Insert(fleetBot("tie-2", "Tie Two", model.BotStatusRunning, 7, now))
	repo.Insert(fleetBot("high", "High", model.BotStatusRunning, 20, now))

	first := svc.List(service.ListOptions{SortBy: service.SortByPnL})
	second := svc.List(service.ListOptions{SortBy: service.SortByPnL})

	ids := func(bots []*model.Bot) []string {
		out := make([]string, len(bots))
		for i, b := range bots {
			out[i] = b.ID
		}
		return out
	}

	assert.Equal(t, []string{"high", "tie-2", "tie-1", "low"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestSortByName(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("c", "Charlie", model.BotStatusRunning, 0, now))
	repo.Insert(fleetBot("a", "Alpha", model.BotStatusRunning, 0, now))
	repo.Insert(fleetBot("b", "Bravo", model.BotStatusRunning, 0, now))

	got := svc.List(service.ListOptions{SortBy: service.SortByName})
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Bravo", got[1].Name)
	assert.Equal(t, "Charlie", got[2].Name)
}

func TestSortByUptimeLongestFirst(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("fresh", "Fresh", model.BotStatusRunning, 0, now.Add(-10*time.Minute)))
	repo.Insert(fleetBot("day", "Day", model.BotStatusRunning, 0, now.Add(-26*time.Hour)))
	repo.Insert(fleetBot("hours", "Hours", model.BotStatusRunning, 0, now.Add(-5*time.Hour)))

	got := svc.List(service.ListOptions{SortBy: service.SortByUptime})
	require.Len(t, got, 3)
	assert.Equal(t, "day", got[0].ID)
	assert.Equal(t, "hours", got[1].ID)
	assert.Equal(t, "fresh", got[2].ID)
	assert.Equal(t, "<1h", got[2].Uptime)
}

func TestSummarySpansWholeFleet(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("a", "Alpha", model.BotStatusRunning, 100.11, now))
	repo.Insert(fleetBot("b", "Beta", model.BotStatusPaused, -25.5, now))
	repo.Insert(fleetBot("c", "Charlie", model.BotStatusStopped, 10, now))

	summary := svc.Summary()
	assert.Equal(t, 3, summary.FleetSize)
	assert.Equal(t, 1, summary.ActiveBots)
	// Paused and stopped bots still count toward the total
	assert.Equal(t, 84.61, summary.TotalPnL)
}

func TestSummaryAnnotatesAlertsWithBotNames(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	losing := fleetBot("a", "Losing Bot", model.BotStatusRunning, -800, now)
	losing.PnLPercent = -8
	losing.AlertSettings = model.AlertSettings{PnLDropThreshold: 5}
	repo.Insert(losing)
	repo.Insert(fleetBot("b", "Healthy Bot", model.BotStatusRunning, 50, now))

	summary := svc.Summary()
	require.Len(t, summary.Alerts, 1)
	assert.Equal(t, "Losing Bot", summary.Alerts[0].BotName)
	assert.Equal(t, model.AlertTypePnL, summary.Alerts[0].Type)
}

func TestFleetUpdatePayload(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	svc, repo := queryFixture(clock)

	repo.Insert(fleetBot("a", "Alpha", model.BotStatusRunning, 12.34, now))
	repo.Insert(fleetBot("b", "Beta", model.BotStatusPaused, 0, now))

	payload := svc.FleetUpdatePayload()
	assert.Len(t, payload.Bots, 2)
	assert.Equal(t, 12.34, payload.TotalPnL)
	assert.Equal(t, 1, payload.ActiveBots)
	assert.Zero(t, payload.AlertCount)
	assert.Equal(t, now.UnixMilli(), payload.GeneratedAt)
}
