package model

// WSMessageType represents the type of WebSocket message
type WSMessageType string

const (
	MessageTypeFleetUpdate WSMessageType = "fleet_update"
	MessageTypeAlertUpdate WSMessageType = "alert_update"
	MessageTypeError       WSMessageType = "error"
)

// WSMessage is the envelope for all WebSocket messages
type WSMessage struct {
	Type    WSMessageType `json:"type"`
	Payload interface{}   `json:"payload"`
}

// WSFleetUpdatePayload is pushed to dashboard clients after every
// simulator tick
type WSFleetUpdatePayload struct {
	Bots        []*Bot  `json:"bots"`
	TotalPnL    float64 `json:"total_pnl"`
	ActiveBots  int     `json:"active_bots"`
	AlertCount  int     `json:"alert_count"`
	GeneratedAt int64   `json:"generated_at"` // unix millis
}
