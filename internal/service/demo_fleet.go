package service

import (
	"fleetwatch/backend/internal/model"
)

// demoBots are the named strategies seeded into an empty fleet so the
// dashboard has something to show on first launch
var demoBots = []model.DeployRequest{
	{
		Name:        "Momentum Alpha",
		Description: "Rides short-term momentum on the major pair",
		Code:        "on tick:\n  if sma(7) crosses above sma(25): buy\n  if sma(7) crosses below sma(25): sell",
	},
	{
		Name:        "Grid Runner",
		Description: "Places a buy/sell grid around the current price",
		Code:        "on tick:\n  maintain grid of 10 levels, 0.5% apart",
	},
	{
		Name:        "Mean Reverter",
		Description: "Fades moves beyond two standard deviations",
		Code:        "on tick:\n  if price > mean + 2*stddev: sell\n  if price < mean - 2*stddev: buy",
	},
	{
		Name:        "Breakout Scout",
		Description: "Enters on range breakouts with a trailing stop",
		Code:        "on tick:\n  if close > high(20): buy with trailing stop 1.5%",
	},
	{
		Name:        "Scalp Drift",
		Description: "High-frequency scalps on small spreads",
		Code:        "on tick:\n  if spread > fee*3: quote both sides",
	},
	{
		Name:        "Swing Keeper",
		Description: "Multi-hour swing entries on trend confirmation",
		Code:        "on tick:\n  if trend up and pullback 1%: buy",
	},
}

// SeedDemoFleet deploys up to size demo bots, capped at the catalog size
func SeedDemoFleet(fleet *FleetService, size int) int {
	if size <= 0 {
		return 0
	}
	if size > len(demoBots) {
		size = len(demoBots)
	}

	seeded := 0
	for i := 0; i < size; i++ {
		req := demoBots[i]
		fleet.Deploy(&req)
		seeded++
	}
	return seeded
}
