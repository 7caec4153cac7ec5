package service

import (
	"fmt"
	"sort"
	"time"

	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/util"
)

// AlertEvaluator derives active alerts from a bot's current metrics.
// Evaluation is a pure function of (bot, now); nothing is stored, so the
// alert set can never drift from the metrics it was derived from. PnL and
// downtime alerts clear themselves as soon as the condition resolves;
// failure alerts stand until the recorded signal is acknowledged.
type AlertEvaluator struct{}

// NewAlertEvaluator creates an evaluator
func NewAlertEvaluator() *AlertEvaluator {
	return &AlertEvaluator{}
}

// Evaluate returns the set of alerts active for a bot at the given time.
// Each rule fires independently and contributes at most one alert.
func (e *AlertEvaluator) Evaluate(bot *model.Bot, now time.Time) []model.ActiveAlert {
	var alerts []model.ActiveAlert

	if a := e.evaluatePnL(bot, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := e.evaluateDowntime(bot, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := e.evaluateFailure(bot, now); a != nil {
		alerts = append(alerts, *a)
	}
	return alerts
}

// evaluatePnL fires when PnL percent falls at or below the negative
// drop threshold. A threshold of zero or less disables the rule.
func (e *AlertEvaluator) evaluatePnL(bot *model.Bot, now time.Time) *model.ActiveAlert {
	threshold := bot.AlertSettings.PnLDropThreshold
	if threshold <= 0 || bot.PnLPercent > -threshold {
		return nil
	}

	severity := model.SeverityWarning
	if util.Abs(bot.PnLPercent) >= 2*threshold {
		severity = model.SeverityCritical
	}

	return &model.ActiveAlert{
		ID:        fmt.Sprintf("%s-%s", bot.ID, model.AlertTypePnL),
		BotID:     bot.ID,
		Type:      model.AlertTypePnL,
		Severity:  severity,
		Message:   fmt.Sprintf("PnL down %.2f%%, threshold is %.2f%%", util.Abs(bot.PnLPercent), threshold),
		Timestamp: now,
	}
}

// evaluateDowntime fires when a bot has been inactive past its
// configured limit. A deliberately stopped bot is idle, not down.
func (e *AlertEvaluator) evaluateDowntime(bot *model.Bot, now time.Time) *model.ActiveAlert {
	limit := bot.AlertSettings.MaxDowntimeMinutes
	if limit <= 0 || bot.Status == model.BotStatusStopped {
		return nil
	}

	idle := now.Sub(bot.LastActivityAt).Minutes()
	if idle < float64(limit) {
		return nil
	}

	severity := model.SeverityWarning
	if idle >= float64(2*limit) {
		severity = model.SeverityCritical
	}

	return &model.ActiveAlert{
		ID:        fmt.Sprintf("%s-%s", bot.ID, model.AlertTypeDowntime),
		BotID:     bot.ID,
		Type:      model.AlertTypeDowntime,
		Severity:  severity,
		Message:   fmt.Sprintf("No activity for %d minutes, limit is %d", int(idle), limit),
		Timestamp: now,
	}
}

// evaluateFailure surfaces a recorded trade-failure signal when the bot
// is configured to notify on failures
func (e *AlertEvaluator) evaluateFailure(bot *model.Bot, _ time.Time) *model.ActiveAlert {
	if !bot.AlertSettings.NotifyOnTradeFailure || bot.FailureSignal == nil {
		return nil
	}

	return &model.ActiveAlert{
		ID:        fmt.Sprintf("%s-%s", bot.ID, model.AlertTypeFailure),
		BotID:     bot.ID,
		Type:      model.AlertTypeFailure,
		Severity:  model.SeverityCritical,
		Message:   bot.FailureSignal.Message,
		Timestamp: bot.FailureSignal.RecordedAt,
	}
}

// SortAlerts orders alerts critical-first, then most recent first
func SortAlerts(alerts []model.ActiveAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == model.SeverityCritical
		}
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
}
