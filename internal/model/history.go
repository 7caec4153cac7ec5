package model

import "time"

// History entry type constants
const (
	HistoryTypeTrade        = "trade"
	HistoryTypeStatusChange = "status_change"
	HistoryTypeAlert        = "alert"
	HistoryTypeInfo         = "info"
)

// HistoryEntry is one immutable record in a bot's activity ledger.
// Entries are owned by their bot and only disappear with it.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"` // trade, status_change, alert, info
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Profit      *float64  `json:"profit,omitempty"` // only for closing trades
}
