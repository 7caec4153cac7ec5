package util_test

import (
	"testing"
	"time"

	"fleetwatch/backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"negative clamps to zero", -time.Hour, "<1h"},
		{"zero", 0, "<1h"},
		{"sub hour", 59 * time.Minute, "<1h"},
		{"exactly one hour", time.Hour, "1h"},
		{"hours only", 5*time.Hour + 30*time.Minute, "5h"},
		{"just under a day", 23 * time.Hour, "23h"},
		{"one day", 24 * time.Hour, "1d 0h"},
		{"days and hours", 26 * time.Hour, "1d 2h"},
		{"many days", 72*time.Hour + 5*time.Hour, "3d 5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, util.FormatUptime(tt.elapsed))
		})
	}
}

func TestParseUptimeHours(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  float64
	}{
		{"empty", "", 0},
		{"sub hour counts as half", "<1h", 0.5},
		{"hours only", "5h", 5},
		{"days and hours", "3d 12h", 84},
		{"one day zero hours", "1d 0h", 24},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, util.ParseUptimeHours(tt.label))
		})
	}
}

func TestUptimeLabelRoundTripOrdering(t *testing.T) {
	// Longer uptimes must parse to strictly larger sort keys
	durations := []time.Duration{
		30 * time.Minute,
		2 * time.Hour,
		23 * time.Hour,
		25 * time.Hour,
		10 * 24 * time.Hour,
	}

	prev := -1.0
	for _, d := range durations {
		hours := util.ParseUptimeHours(util.FormatUptime(d))
		assert.Greater(t, hours, prev)
		prev = hours
	}
}
