package model

import "time"

// Alert type constants
const (
	AlertTypePnL      = "pnl"
	AlertTypeDowntime = "downtime"
	AlertTypeFailure  = "failure"
)

// Alert severity constants
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ActiveAlert is a derived alert condition computed from a bot's current
// metrics. It is never persisted; every read re-derives the set.
type ActiveAlert struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	BotName   string    `json:"bot_name,omitempty"` // set on fleet-wide views
	Type      string    `json:"type"`               // pnl, downtime, failure
	Severity  string    `json:"severity"`           // warning, critical
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
