package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatUptime renders an elapsed duration as the "Nd Mh" style label
// shown on the dashboard. Sub-hour uptimes render as "<1h".
func FormatUptime(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}

	totalHours := int(elapsed.Hours())
	if totalHours < 1 {
		return "<1h"
	}

	days := totalHours / 24
	hours := totalHours % 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh", hours)
}

// ParseUptimeHours parses an "Nd Mh" style uptime label into total hours
// for sorting. Sub-hour labels count as 0.5 so they rank below any
// whole-hour entry but above zero. Unrecognized labels parse to 0.
func ParseUptimeHours(label string) float64 {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0
	}
	if strings.HasPrefix(label, "<1h") {
		return 0.5
	}

	var total float64
	for _, part := range strings.Fields(label) {
		if strings.HasSuffix(part, "d") {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(part, "d"), 64); err == nil {
				total += v * 24
			}
		} else if strings.HasSuffix(part, "h") {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(part, "h"), 64); err == nil {
				total += v
			}
		}
	}
	return total
}
