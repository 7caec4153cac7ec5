// Package repository provides data access for the application. The bot
// fleet is process-lifetime only; there is no persistence layer behind it.
package repository

import (
	"sync"
	"time"

	"fleetwatch/backend/internal/model"
)

// FleetRepository is the canonical bot record store. It owns every Bot
// instance outright; readers only ever see deep copies. A single RWMutex
// serializes the simulator's tick writes against handler mutations, so
// each tick is applied atomically with respect to any read.
type FleetRepository struct {
	mu    sync.RWMutex
	bots  map[string]*model.Bot
	order []string // fleet display order, newest deployment first
}

// NewFleetRepository creates an empty fleet store
func NewFleetRepository() *FleetRepository {
	return &FleetRepository{
		bots: make(map[string]*model.Bot),
	}
}

// Insert adds a bot at the front of the fleet ordering
func (r *FleetRepository) Insert(bot *model.Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bots[bot.ID] = bot
	r.order = append([]string{bot.ID}, r.order...)
}

// Get returns a deep copy of a bot, or nil when unknown
func (r *FleetRepository) Get(id string) *model.Bot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bot, ok := r.bots[id]
	if !ok {
		return nil
	}
	return bot.Clone()
}

// Delete removes a bot and its entire owned history atomically.
// Unknown ids are a no-op; it reports whether a bot was removed.
func (r *FleetRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bots[id]; !ok {
		return false
	}
	delete(r.bots, id)
	for i, botID := range r.order {
		if botID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Mutate applies fn to the live bot record under the write lock.
// It reports whether the bot exists; unknown ids never invoke fn.
func (r *FleetRepository) Mutate(id string, fn func(*model.Bot)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return false
	}
	fn(bot)
	bot.UpdatedAt = time.Now()
	return true
}

// ForEach applies fn to every live bot record in fleet order under the
// write lock. Used by the tick simulator so a whole tick is one
// critical section.
func (r *FleetRepository) ForEach(fn func(*model.Bot)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if bot, ok := r.bots[id]; ok {
			fn(bot)
		}
	}
}

// Snapshot returns deep copies of all bots in fleet order
func (r *FleetRepository) Snapshot() []*model.Bot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bots := make([]*model.Bot, 0, len(r.order))
	for _, id := range r.order {
		if bot, ok := r.bots[id]; ok {
			bots = append(bots, bot.Clone())
		}
	}
	return bots
}

// AppendHistory appends an immutable entry to a bot's ledger. Append is
// the only mutation the ledger supports; entries are never edited or
// reordered afterward. Unknown ids are a no-op.
func (r *FleetRepository) AppendHistory(id string, entry *model.HistoryEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return false
	}
	bot.History = append(bot.History, entry)
	return true
}

// History returns a bot's ledger newest-first, bounded to limit entries
// when limit > 0. A deleted or unknown bot yields an empty slice, not
// an error.
func (r *FleetRepository) History(id string, limit int) []*model.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bot, ok := r.bots[id]
	if !ok {
		return []*model.HistoryEntry{}
	}

	n := len(bot.History)
	if limit <= 0 || limit > n {
		limit = n
	}

	entries := make([]*model.HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entry := *bot.History[i]
		if bot.History[i].Profit != nil {
			p := *bot.History[i].Profit
			entry.Profit = &p
		}
		entries = append(entries, &entry)
	}
	return entries
}

// Len returns the fleet size
func (r *FleetRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bots)
}
