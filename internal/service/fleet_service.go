package service

import (
	"fmt"
	"strings"
	"time"

	"fleetwatch/backend/internal/config"
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/util"
	"fleetwatch/backend/pkg/logger"

	"github.com/google/uuid"
)

// FleetService is the command surface over the fleet store: deploy,
// toggle, delete, rename, alert configuration, and the ledger hooks.
// Validation and reference errors are silent no-ops per the error
// policy; the worst outcome of any call is an unchanged bot record.
type FleetService struct {
	fleetRepo *repository.FleetRepository
	evaluator *AlertEvaluator
	defaults  config.AlertDefaultsConfig
	capital   float64
	clock     Clock
	log       *logger.Logger
}

// NewFleetService creates the lifecycle controller
func NewFleetService(
	fleetRepo *repository.FleetRepository,
	evaluator *AlertEvaluator,
	defaults config.AlertDefaultsConfig,
	capital float64,
	clock Clock,
) *FleetService {
	if clock == nil {
		clock = systemClock{}
	}
	return &FleetService{
		fleetRepo: fleetRepo,
		evaluator: evaluator,
		defaults:  defaults,
		capital:   capital,
		clock:     clock,
		log:       logger.GetLogger(),
	}
}

// Deploy creates a new running bot with zeroed metrics and default alert
// configuration, inserted at the front of the fleet ordering
func (s *FleetService) Deploy(req *model.DeployRequest) *model.Bot {
	now := s.clock.Now()

	bot := &model.Bot{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      model.BotStatusRunning,
		CapitalBase: s.capital,
		LastTrade:   "just now",
		Strategy:    req.Code,
		AlertSettings: model.AlertSettings{
			PnLDropThreshold:     s.defaults.PnLDropThreshold,
			MaxDowntimeMinutes:   s.defaults.MaxDowntimeMinutes,
			NotifyOnTradeFailure: s.defaults.NotifyOnTradeFailure,
		},
		StartedAt:      now,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.fleetRepo.Insert(bot)
	s.appendHistory(bot.ID, model.HistoryTypeInfo, "Bot deployed", fmt.Sprintf("%s deployed and running", bot.Name), nil)

	s.log.Infof("Bot deployed: id=%s name=%s", bot.ID, bot.Name)
	return s.GetBot(bot.ID)
}

// ToggleStatus flips a bot between running and paused. Stopped and
// unknown bots are left untouched; toggling is undefined for them.
func (s *FleetService) ToggleStatus(id string) *model.Bot {
	var toggled string

	s.fleetRepo.Mutate(id, func(bot *model.Bot) {
		switch bot.Status {
		case model.BotStatusRunning:
			bot.Status = model.BotStatusPaused
		case model.BotStatusPaused:
			bot.Status = model.BotStatusRunning
			bot.LastActivityAt = s.clock.Now()
		default:
			return
		}
		toggled = bot.Status
	})

	if toggled != "" {
		s.appendHistory(id, model.HistoryTypeStatusChange, "Status changed", fmt.Sprintf("Bot is now %s", toggled), nil)
	}
	return s.GetBot(id)
}

// Delete removes a bot and its entire owned history. Unknown ids are a
// no-op.
func (s *FleetService) Delete(id string) {
	if s.fleetRepo.Delete(id) {
		s.log.Infof("Bot deleted: id=%s", id)
	}
}

// Rename updates a bot's display name. Empty or whitespace-only names
// are silently rejected, leaving the prior name intact.
func (s *FleetService) Rename(id, name string) *model.Bot {
	name = strings.TrimSpace(name)
	if name != "" {
		s.fleetRepo.Mutate(id, func(bot *model.Bot) {
			bot.Name = name
		})
	}
	return s.GetBot(id)
}

// UpdateAlertSettings replaces a bot's alert configuration and PnL
// target wholesale. Numeric coercion already happened during request
// decoding; no range checks are applied here.
func (s *FleetService) UpdateAlertSettings(id string, req *model.AlertSettingsRequest) *model.Bot {
	s.fleetRepo.Mutate(id, func(bot *model.Bot) {
		bot.AlertSettings = model.AlertSettings{
			PnLDropThreshold:     req.PnLDropThreshold.Float64(),
			MaxDowntimeMinutes:   int(req.MaxDowntimeMinutes.Float64()),
			NotifyOnTradeFailure: req.NotifyOnTradeFailure,
		}
		if req.TargetPnL != nil {
			target := req.TargetPnL.Float64()
			bot.TargetPnL = &target
		} else {
			bot.TargetPnL = nil
		}
	})
	return s.GetBot(id)
}

// RecordTradeCompleted is the trade-completion hook: it appends the
// closing trade to the bot's ledger. Wired to the simulator's OnTrade.
func (s *FleetService) RecordTradeCompleted(id string, profit float64) {
	verb := "gained"
	if profit < 0 {
		verb = "lost"
	}
	s.appendHistory(id, model.HistoryTypeTrade, "Trade closed",
		fmt.Sprintf("Position closed, %s %.2f", verb, util.Abs(profit)), &profit)
}

// RecordTradeFailure records an external trade-failure signal. It stands
// until acknowledged.
func (s *FleetService) RecordTradeFailure(id, message string) *model.Bot {
	if strings.TrimSpace(message) == "" {
		message = "Trade execution failed"
	}
	recorded := s.fleetRepo.Mutate(id, func(bot *model.Bot) {
		bot.FailureSignal = &model.FailureSignal{
			Message:    message,
			RecordedAt: s.clock.Now(),
		}
	})
	if recorded {
		s.appendHistory(id, model.HistoryTypeAlert, "Trade failure", message, nil)
	}
	return s.GetBot(id)
}

// AcknowledgeTradeFailure clears a pending failure signal
func (s *FleetService) AcknowledgeTradeFailure(id string) *model.Bot {
	s.fleetRepo.Mutate(id, func(bot *model.Bot) {
		bot.FailureSignal = nil
	})
	return s.GetBot(id)
}

// GetBot returns a bot decorated with its derived alerts and uptime
// label, or nil when unknown
func (s *FleetService) GetBot(id string) *model.Bot {
	bot := s.fleetRepo.Get(id)
	if bot == nil {
		return nil
	}
	decorateBot(bot, s.evaluator, s.clock.Now())
	return bot
}

// History returns a bot's ledger newest-first, bounded to limit when
// limit > 0. Unknown ids yield an empty slice.
func (s *FleetService) History(id string, limit int) []*model.HistoryEntry {
	return s.fleetRepo.History(id, limit)
}

func (s *FleetService) appendHistory(botID, entryType, title, description string, profit *float64) {
	s.fleetRepo.AppendHistory(botID, &model.HistoryEntry{
		ID:          uuid.New().String(),
		Timestamp:   s.clock.Now(),
		Type:        entryType,
		Title:       title,
		Description: description,
		Profit:      profit,
	})
}

// decorateBot fills the read-time derived fields on a bot copy
func decorateBot(bot *model.Bot, evaluator *AlertEvaluator, now time.Time) {
	bot.Uptime = util.FormatUptime(now.Sub(bot.StartedAt))
	bot.ActiveAlerts = evaluator.Evaluate(bot, now)
}
