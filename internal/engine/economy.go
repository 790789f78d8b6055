// Package engine advances the clicker economy. The functions in this file
// are the raw transitions over an EconomyState; Engine serializes them.
package engine

import (
	"math"

	"github.com/Ozsumit/csf-pwa/internal/models"
)

const (
	AutoRateStep      = 0.5
	AutoCostGrowth    = 2.2
	UpgradeCostGrowth = 2.3
	ItemCostGrowth    = 2.05

	luckyCharmChance     = 0.2
	luckyCharmFactor     = 2
	donationMultFactor   = 3
	rainbowFactor        = 1.5
	timeWarpFactor       = 3
	donationMultiplierN  = 20
	timeWarpBonusPerAuto = 2
)

// Click adds one donation and returns the amount gained. The lucky charm
// roll only consumes a random draw while the charm is active.
func Click(s *models.EconomyState, rng Rand) float64 {
	multiplier := 1.0
	if s.LuckyCharmActive && rng.Float64() < luckyCharmChance {
		multiplier *= luckyCharmFactor
	}
	if s.DonationMultiplierClicks > 0 {
		multiplier *= donationMultFactor
	}
	if s.RainbowBoostActive {
		multiplier *= rainbowFactor
	}
	gain := s.ClickPower * multiplier
	s.Currency += gain
	s.DonationMultiplierClicks = max(0, s.DonationMultiplierClicks-1)
	return gain
}

// ClickGain is the gain of the next click, ignoring the lucky charm roll.
func ClickGain(s *models.EconomyState) float64 {
	gain := s.ClickPower
	if s.DonationMultiplierClicks > 0 {
		gain *= donationMultFactor
	}
	if s.RainbowBoostActive {
		gain *= rainbowFactor
	}
	return gain
}

// AutoGain is what Tick will add.
func AutoGain(s *models.EconomyState) float64 {
	gain := s.AutoRate + s.SpecialItemBonus.AutoClickerPower
	if s.TimeWarpActive {
		gain *= timeWarpFactor
	}
	if s.RainbowBoostActive {
		gain *= rainbowFactor
	}
	return gain
}

// Tick accrues one period of automation.
func Tick(s *models.EconomyState) {
	s.Currency += AutoGain(s)
}

// PurchaseAutoClicker buys half an auto-clicker. It reports false and
// leaves s untouched when the player cannot afford it.
func PurchaseAutoClicker(s *models.EconomyState) bool {
	if s.Currency < s.AutoCost {
		return false
	}
	s.Currency -= s.AutoCost
	s.AutoRate += AutoRateStep
	s.AutoLevel++
	if !s.FrostBonusActive {
		s.AutoCost = growCost(s.AutoCost, AutoCostGrowth)
	}
	return true
}

// PurchaseUpgrade raises click power by one.
func PurchaseUpgrade(s *models.EconomyState) bool {
	if s.Currency < s.UpgradeCost {
		return false
	}
	s.Currency -= s.UpgradeCost
	s.ClickPower++
	s.UpgradeLevel++
	s.UpgradeCost = growCost(s.UpgradeCost, UpgradeCostGrowth)
	return true
}

// growCost rounds a grown price up to a whole coin. Products that land a
// few ulps above an integer are treated as that integer.
func growCost(cost, factor float64) float64 {
	next := cost * factor
	floor := math.Floor(next)
	if frac := next - floor; frac > 0 && frac <= next*1e-15 {
		return floor
	}
	return math.Ceil(next)
}
