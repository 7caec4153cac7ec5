package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"fleetwatch/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"number", `{"v": 5.5}`, 5.5},
		{"negative number", `{"v": -3}`, -3},
		{"quoted number", `{"v": "7.25"}`, 7.25},
		{"null", `{"v": null}`, 0},
		{"garbage string", `{"v": "abc"}`, 0},
		{"empty string", `{"v": ""}`, 0},
		{"boolean", `{"v": true}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				V model.FlexFloat `json:"v"`
			}
			// Coercion never rejects the request
			require.NoError(t, json.Unmarshal([]byte(tt.input), &payload))
			assert.Equal(t, tt.want, payload.V.Float64())
		})
	}
}

func TestAlertSettingsRequestDecoding(t *testing.T) {
	var req model.AlertSettingsRequest
	err := json.Unmarshal([]byte(`{
		"pnl_drop_threshold": "5",
		"max_downtime_minutes": 30,
		"notify_on_trade_failure": true
	}`), &req)
	require.NoError(t, err)

	assert.Equal(t, 5.0, req.PnLDropThreshold.Float64())
	assert.Equal(t, 30.0, req.MaxDowntimeMinutes.Float64())
	assert.True(t, req.NotifyOnTradeFailure)
	assert.Nil(t, req.TargetPnL)
}

func TestBotCloneIsDeep(t *testing.T) {
	target := 500.0
	profit := 12.5
	bot := &model.Bot{
		ID:        "a",
		Name:      "Original",
		Status:    model.BotStatusRunning,
		TargetPnL: &target,
		FailureSignal: &model.FailureSignal{
			Message:    "failed",
			RecordedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		History: []*model.HistoryEntry{
			{ID: "h1", Type: model.HistoryTypeTrade, Profit: &profit},
		},
		ActiveAlerts: []model.ActiveAlert{
			{ID: "a-pnl", Type: model.AlertTypePnL},
		},
	}

	clone := bot.Clone()
	*clone.TargetPnL = 999
	clone.FailureSignal.Message = "mutated"
	*clone.History[0].Profit = -1
	clone.History[0].Title = "mutated"
	clone.ActiveAlerts[0].ID = "mutated"

	assert.Equal(t, 500.0, *bot.TargetPnL)
	assert.Equal(t, "failed", bot.FailureSignal.Message)
	assert.Equal(t, 12.5, *bot.History[0].Profit)
	assert.Empty(t, bot.History[0].Title)
	assert.Equal(t, "a-pnl", bot.ActiveAlerts[0].ID)
}

func TestHistoryHiddenFromBotJSON(t *testing.T) {
	bot := &model.Bot{
		ID:      "a",
		History: []*model.HistoryEntry{{ID: "h1"}},
	}

	data, err := json.Marshal(bot)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "h1")
}
