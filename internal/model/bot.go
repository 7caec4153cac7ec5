package model

import (
	"bytes"
	"strconv"
	"time"
)

// Bot status constants
const (
	BotStatusRunning = "running"
	BotStatusPaused  = "paused"
	BotStatusStopped = "stopped"
)

// Bot represents one tracked strategy instance in the fleet
type Bot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"` // running, paused, stopped

	// Metrics, mutated by the tick simulator
	PnL         float64 `json:"pnl"`
	PnLPercent  float64 `json:"pnl_percent"`
	CapitalBase float64 `json:"capital_base"`
	TradeCount  int     `json:"trade_count"`
	LastTrade   string  `json:"last_trade"`

	TargetPnL *float64 `json:"target_pnl,omitempty"`
	Strategy  string   `json:"strategy,omitempty"` // pseudo-code source text

	AlertSettings AlertSettings  `json:"alert_settings"`
	FailureSignal *FailureSignal `json:"failure_signal,omitempty"`

	// Owned, append-only ledger. Serialized separately via the history endpoint.
	History []*HistoryEntry `json:"-"`

	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Derived at read time, never stored
	Uptime       string        `json:"uptime"`
	ActiveAlerts []ActiveAlert `json:"active_alerts,omitempty"`
}

// Clone returns a deep copy safe to hand to readers
func (b *Bot) Clone() *Bot {
	clone := *b
	if b.TargetPnL != nil {
		v := *b.TargetPnL
		clone.TargetPnL = &v
	}
	if b.FailureSignal != nil {
		sig := *b.FailureSignal
		clone.FailureSignal = &sig
	}
	if b.History != nil {
		clone.History = make([]*HistoryEntry, len(b.History))
		for i, e := range b.History {
			entry := *e
			if e.Profit != nil {
				p := *e.Profit
				entry.Profit = &p
			}
			clone.History[i] = &entry
		}
	}
	if b.ActiveAlerts != nil {
		clone.ActiveAlerts = append([]ActiveAlert(nil), b.ActiveAlerts...)
	}
	return &clone
}

// IsRunning returns true when the bot participates in simulation ticks
func (b *Bot) IsRunning() bool {
	return b.Status == BotStatusRunning
}

// AlertSettings is the per-bot alerting configuration
type AlertSettings struct {
	PnLDropThreshold     float64 `json:"pnl_drop_threshold"`   // percent, positive magnitude
	MaxDowntimeMinutes   int     `json:"max_downtime_minutes"` // 0 disables
	NotifyOnTradeFailure bool    `json:"notify_on_trade_failure"`
}

// FailureSignal is a trade-failure recorded from outside the core.
// It stands until explicitly acknowledged.
type FailureSignal struct {
	Message    string    `json:"message"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DeployRequest is the payload to create a new bot
type DeployRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// RenameRequest is the payload to rename a bot
type RenameRequest struct {
	Name string `json:"name"`
}

// AlertSettingsRequest replaces a bot's alert configuration wholesale.
// Numeric fields accept either JSON numbers or strings; anything that
// does not parse is coerced to 0, not rejected.
type AlertSettingsRequest struct {
	PnLDropThreshold     FlexFloat  `json:"pnl_drop_threshold"`
	MaxDowntimeMinutes   FlexFloat  `json:"max_downtime_minutes"`
	NotifyOnTradeFailure bool       `json:"notify_on_trade_failure"`
	TargetPnL            *FlexFloat `json:"target_pnl"`
}

// FailureRequest records an external trade-failure signal
type FailureRequest struct {
	Message string `json:"message"`
}

// FlexFloat is a float64 that tolerates sloppy client input: numbers,
// quoted numbers, null, or garbage. Unparseable values become 0.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the underlying value
func (f FlexFloat) Float64() float64 {
	return float64(f)
}
