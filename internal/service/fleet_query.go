package service

import (
	"sort"
	"strings"

	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/util"
)

// Sort key constants for fleet listings
const (
	SortByName   = "name"
	SortByPnL    = "pnl"
	SortByUptime = "uptime"
)

// ListOptions narrows and orders a fleet listing
type ListOptions struct {
	Status string // "", "all", or one of running/paused/stopped
	Search string // case-insensitive substring on name or id
	SortBy string // name, pnl, uptime; empty keeps fleet order
}

// FleetSummary aggregates fleet-wide totals. Totals always span the
// whole fleet, never a filtered view.
type FleetSummary struct {
	TotalPnL   float64             `json:"total_pnl"`
	ActiveBots int                 `json:"active_bots"`
	FleetSize  int                 `json:"fleet_size"`
	Alerts     []model.ActiveAlert `json:"alerts"`
}

// FleetQueryService is a stateless, side-effect-free projection over the
// fleet store. It only ever works on snapshots; nothing here mutates the
// store, and results are deterministic for a given snapshot and options.
type FleetQueryService struct {
	fleetRepo *repository.FleetRepository
	evaluator *AlertEvaluator
	clock     Clock
}

// NewFleetQueryService creates the query engine
func NewFleetQueryService(fleetRepo *repository.FleetRepository, evaluator *AlertEvaluator, clock Clock) *FleetQueryService {
	if clock == nil {
		clock = systemClock{}
	}
	return &FleetQueryService{
		fleetRepo: fleetRepo,
		evaluator: evaluator,
		clock:     clock,
	}
}

// List returns the filtered, sorted fleet view with derived fields
// filled in. An empty result is a valid result, never an error.
func (s *FleetQueryService) List(opts ListOptions) []*model.Bot {
	now := s.clock.Now()
	bots := s.fleetRepo.Snapshot()

	for _, bot := range bots {
		decorateBot(bot, s.evaluator, now)
	}

	bots = filterBots(bots, opts)
	sortBots(bots, opts.SortBy)
	return bots
}

// Summary aggregates totals across the entire fleet plus the flattened
// alert list annotated with owning bot names
func (s *FleetQueryService) Summary() FleetSummary {
	now := s.clock.Now()
	bots := s.fleetRepo.Snapshot()

	summary := FleetSummary{
		FleetSize: len(bots),
		Alerts:    []model.ActiveAlert{},
	}

	for _, bot := range bots {
		summary.TotalPnL += bot.PnL
		if bot.IsRunning() {
			summary.ActiveBots++
		}
		for _, alert := range s.evaluator.Evaluate(bot, now) {
			alert.BotName = bot.Name
			summary.Alerts = append(summary.Alerts, alert)
		}
	}

	summary.TotalPnL = util.Round2(summary.TotalPnL)
	SortAlerts(summary.Alerts)
	return summary
}

// FleetUpdatePayload builds the payload broadcast to dashboard clients
// after a tick
func (s *FleetQueryService) FleetUpdatePayload() model.WSFleetUpdatePayload {
	bots := s.List(ListOptions{})
	summary := s.Summary()

	return model.WSFleetUpdatePayload{
		Bots:        bots,
		TotalPnL:    summary.TotalPnL,
		ActiveBots:  summary.ActiveBots,
		AlertCount:  len(summary.Alerts),
		GeneratedAt: s.clock.Now().UnixMilli(),
	}
}

func filterBots(bots []*model.Bot, opts ListOptions) []*model.Bot {
	status := strings.ToLower(strings.TrimSpace(opts.Status))
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	if (status == "" || status == "all") && search == "" {
		return bots
	}

	filtered := make([]*model.Bot, 0, len(bots))
	for _, bot := range bots {
		if status != "" && status != "all" && bot.Status != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(bot.Name), search) &&
			!strings.Contains(strings.ToLower(bot.ID), search) {
			continue
		}
		filtered = append(filtered, bot)
	}
	return filtered
}

// sortBots orders a listing. Sorting is stable so ties keep their prior
// relative order and repeated refreshes do not flicker.
func sortBots(bots []*model.Bot, sortBy string) {
	switch sortBy {
	case SortByName:
		sort.SliceStable(bots, func(i, j int) bool {
			return bots[i].Name < bots[j].Name
		})
	case SortByPnL:
		sort.SliceStable(bots, func(i, j int) bool {
			return bots[i].PnL > bots[j].PnL
		})
	case SortByUptime:
		sort.SliceStable(bots, func(i, j int) bool {
			return util.ParseUptimeHours(bots[i].Uptime) > util.ParseUptimeHours(bots[j].Uptime)
		})
	}
}
