package engine

import (
	"math"
	"sort"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/models"
)

// ActiveEffect is a running special item buff. ClickDelta and AutoDelta
// record what activation added to ClickPower/AutoRate so expiry can take
// exactly that back out.
type ActiveEffect struct {
	ID         models.ItemID
	ExpiresAt  time.Time
	ClickDelta float64
	AutoDelta  float64
}

// ActiveEffects maps an item to its running buff. It is saved next to the
// state as []models.EffectRecord, since activation changes the saved state.
type ActiveEffects map[models.ItemID]ActiveEffect

// itemEffect pairs what an item does when bought with how it is undone.
// flagged reports whether the state still carries the item's flag; it is
// nil for items that only move ClickPower/AutoRate.
type itemEffect struct {
	activate func(s *models.EconomyState, fx *ActiveEffect)
	expire   func(s *models.EconomyState, fx ActiveEffect)
	flagged  func(s *models.EconomyState) bool
}

var effectTable = map[models.ItemID]itemEffect{
	models.GoldenHeart: {
		activate: func(s *models.EconomyState, fx *ActiveEffect) {
			s.SpecialItemBonus.ClickPower += s.ClickPower
			fx.ClickDelta += s.ClickPower
			s.ClickPower *= 2
		},
		expire: func(s *models.EconomyState, fx ActiveEffect) {
			// measured against the click power at expiry, not at purchase
			s.SpecialItemBonus.ClickPower = math.Max(0, s.SpecialItemBonus.ClickPower-s.ClickPower)
			s.ClickPower = math.Max(models.InitialClickPower, s.ClickPower-fx.ClickDelta)
		},
	},
	models.LuckyCharm: {
		activate: func(s *models.EconomyState, _ *ActiveEffect) { s.LuckyCharmActive = true },
		expire:   func(s *models.EconomyState, _ ActiveEffect) { s.LuckyCharmActive = false },
		flagged:  func(s *models.EconomyState) bool { return s.LuckyCharmActive },
	},
	models.TimeWarp: {
		activate: func(s *models.EconomyState, _ *ActiveEffect) {
			s.TimeWarpActive = true
			s.SpecialItemBonus.AutoClickerPower += s.AutoRate * timeWarpBonusPerAuto
		},
		expire: func(s *models.EconomyState, _ ActiveEffect) {
			s.TimeWarpActive = false
			s.SpecialItemBonus.AutoClickerPower = math.Max(0, s.SpecialItemBonus.AutoClickerPower-s.AutoRate*timeWarpBonusPerAuto)
		},
		flagged: func(s *models.EconomyState) bool { return s.TimeWarpActive },
	},
	models.DonationMultiplier: {
		activate: func(s *models.EconomyState, _ *ActiveEffect) { s.DonationMultiplierClicks = donationMultiplierN },
		expire:   func(s *models.EconomyState, _ ActiveEffect) { s.DonationMultiplierClicks = 0 },
		flagged:  func(s *models.EconomyState) bool { return s.DonationMultiplierClicks > 0 },
	},
	models.FrostBonus: {
		activate: func(s *models.EconomyState, _ *ActiveEffect) { s.FrostBonusActive = true },
		expire:   func(s *models.EconomyState, _ ActiveEffect) { s.FrostBonusActive = false },
		flagged:  func(s *models.EconomyState) bool { return s.FrostBonusActive },
	},
	models.PowerSurge: {
		activate: func(s *models.EconomyState, fx *ActiveEffect) {
			fx.ClickDelta += s.ClickPower
			s.ClickPower *= 2
		},
		expire: func(s *models.EconomyState, fx ActiveEffect) {
			s.ClickPower = math.Max(models.InitialClickPower, s.ClickPower-fx.ClickDelta)
		},
	},
	models.AutoBoost: {
		activate: func(s *models.EconomyState, fx *ActiveEffect) {
			fx.AutoDelta += s.AutoRate * 2
			s.AutoRate *= 3
		},
		expire: func(s *models.EconomyState, fx ActiveEffect) {
			s.AutoRate = math.Max(0, s.AutoRate-fx.AutoDelta)
		},
	},
	models.RainbowBoost: {
		activate: func(s *models.EconomyState, _ *ActiveEffect) { s.RainbowBoostActive = true },
		expire:   func(s *models.EconomyState, _ ActiveEffect) { s.RainbowBoostActive = false },
		flagged:  func(s *models.EconomyState) bool { return s.RainbowBoostActive },
	},
}

// PurchaseSpecialItem buys id, raises its price and starts its buff. An
// already running buff is extended and its deltas accumulate. Unknown
// items and unaffordable ones are no-ops.
func PurchaseSpecialItem(s *models.EconomyState, effects ActiveEffects, id models.ItemID, now time.Time) bool {
	item := s.Item(id)
	fx, ok := effectTable[id]
	if item == nil || !ok || s.Currency < item.Cost {
		return false
	}
	s.Currency -= item.Cost
	item.Cost = growCost(item.Cost, ItemCostGrowth)

	active := effects[id]
	active.ID = id
	fx.activate(s, &active)
	if item.DurationMs > 0 {
		active.ExpiresAt = now.Add(time.Duration(item.DurationMs) * time.Millisecond)
		effects[id] = active
	}
	return true
}

// Sweep ends every buff whose expiry is strictly before now and returns
// the ids it ended, in catalog order.
func Sweep(s *models.EconomyState, effects ActiveEffects, now time.Time) []models.ItemID {
	var expired []models.ItemID
	for _, it := range s.SpecialItems {
		active, ok := effects[it.ID]
		if !ok || !now.After(active.ExpiresAt) {
			continue
		}
		delete(effects, it.ID)
		if fx, ok := effectTable[it.ID]; ok {
			fx.expire(s, active)
		}
		expired = append(expired, it.ID)
	}
	return expired
}

// Records converts the running buffs into their saved form, ordered by id.
func (effects ActiveEffects) Records() []models.EffectRecord {
	recs := make([]models.EffectRecord, 0, len(effects))
	for _, fx := range effects {
		recs = append(recs, models.EffectRecord{
			ID:         fx.ID,
			ExpiresAt:  fx.ExpiresAt,
			ClickDelta: fx.ClickDelta,
			AutoDelta:  fx.AutoDelta,
		})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs
}

// RestoreEffects rebuilds the running buffs of a loaded state. Records for
// unknown items are dropped. A flag left set in s with no record behind it
// is switched off, since nothing could ever expire it; the next Sweep ends
// restored buffs that ran out while the game was closed.
func RestoreEffects(s *models.EconomyState, recs []models.EffectRecord) ActiveEffects {
	effects := ActiveEffects{}
	for _, r := range recs {
		if _, ok := effectTable[r.ID]; !ok || s.Item(r.ID) == nil {
			continue
		}
		effects[r.ID] = ActiveEffect{ID: r.ID, ExpiresAt: r.ExpiresAt, ClickDelta: r.ClickDelta, AutoDelta: r.AutoDelta}
	}
	for _, it := range s.SpecialItems {
		fx, ok := effectTable[it.ID]
		if !ok || fx.flagged == nil {
			continue
		}
		if _, running := effects[it.ID]; !running && fx.flagged(s) {
			fx.expire(s, ActiveEffect{ID: it.ID})
		}
	}
	return effects
}
