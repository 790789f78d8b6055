package models

// AchievementKind selects which stat an achievement threshold is compared to.
type AchievementKind string

const (
	KindDonations    AchievementKind = "donations"
	KindAutoClickers AchievementKind = "autoClickers"
	KindClickPower   AchievementKind = "clickPower"
	KindSpecialItems AchievementKind = "specialItems"
)

// Achievement is a one-way milestone. Only Achieved ever changes.
type Achievement struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Kind        AchievementKind `json:"kind" yaml:"kind"`
	Threshold   float64         `json:"threshold" yaml:"threshold"`
	Achieved    bool            `json:"achieved" yaml:"achieved"`
}

// ItemID identifies a special item. The set is closed; see Items.
type ItemID string

const (
	GoldenHeart        ItemID = "goldenHeart"
	LuckyCharm         ItemID = "luckyCharm"
	TimeWarp           ItemID = "timeWarp"
	DonationMultiplier ItemID = "donationMultiplier"
	FrostBonus         ItemID = "frostBonus"
	PowerSurge         ItemID = "powerSurge"
	AutoBoost          ItemID = "autoBoost"
	RainbowBoost       ItemID = "rainbowBoost"
)

// SpecialItemState is a purchasable timed buff. Cost only goes up.
type SpecialItemState struct {
	ID          ItemID  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Cost        float64 `json:"cost" yaml:"cost"`
	DurationMs  int64   `json:"duration" yaml:"duration"`
}

// SpecialItemBonus holds additive bonuses from active golden heart and time warp buffs.
type SpecialItemBonus struct {
	ClickPower       float64 `json:"clickPower" yaml:"clickPower"`
	AutoClickerPower float64 `json:"autoClickerPower" yaml:"autoClickerPower"`
}

// EconomyState is the whole persisted game.
type EconomyState struct {
	Currency                 float64            `json:"currency" yaml:"currency"`
	ClickPower               float64            `json:"clickPower" yaml:"clickPower"`
	AutoRate                 float64            `json:"autoRate" yaml:"autoRate"`
	AutoCost                 float64            `json:"autoCost" yaml:"autoCost"`
	UpgradeCost              float64            `json:"upgradeCost" yaml:"upgradeCost"`
	UpgradeLevel             int                `json:"upgradeLevel" yaml:"upgradeLevel"`
	AutoLevel                int                `json:"autoLevel" yaml:"autoLevel"`
	Achievements             []Achievement      `json:"achievements" yaml:"achievements"`
	SpecialItems             []SpecialItemState `json:"specialItems" yaml:"specialItems"`
	LuckyCharmActive         bool               `json:"luckyCharmActive" yaml:"luckyCharmActive"`
	FrostBonusActive         bool               `json:"frostBonusActive" yaml:"frostBonusActive"`
	TimeWarpActive           bool               `json:"timeWarpActive" yaml:"timeWarpActive"`
	RainbowBoostActive       bool               `json:"rainbowBoostActive" yaml:"rainbowBoostActive"`
	DonationMultiplierClicks int                `json:"donationMultiplierClicks" yaml:"donationMultiplierClicks"`
	SpecialItemBonus         SpecialItemBonus   `json:"specialItemBonus" yaml:"specialItemBonus"`
}

const (
	InitialClickPower  = 1
	InitialAutoCost    = 10
	InitialUpgradeCost = 50
)

// NewState returns a fresh game.
func NewState() *EconomyState {
	return &EconomyState{
		ClickPower:   InitialClickPower,
		AutoCost:     InitialAutoCost,
		UpgradeCost:  InitialUpgradeCost,
		Achievements: Achievements(),
		SpecialItems: Items(),
	}
}

// Clone returns a deep copy.
func (s *EconomyState) Clone() *EconomyState {
	c := *s
	c.Achievements = append([]Achievement(nil), s.Achievements...)
	c.SpecialItems = append([]SpecialItemState(nil), s.SpecialItems...)
	return &c
}

// Item returns a pointer into s.SpecialItems, or nil for an unknown id.
func (s *EconomyState) Item(id ItemID) *SpecialItemState {
	for i := range s.SpecialItems {
		if s.SpecialItems[i].ID == id {
			return &s.SpecialItems[i]
		}
	}
	return nil
}

// UnlockedCount reports how many achievements are achieved.
func (s *EconomyState) UnlockedCount() int {
	n := 0
	for _, a := range s.Achievements {
		if a.Achieved {
			n++
		}
	}
	return n
}

// Normalize reconciles a decoded state with the current catalogs. Catalog
// order and text win; saved progress (achieved flags, item costs) is kept.
func (s *EconomyState) Normalize() {
	achieved := make(map[string]bool, len(s.Achievements))
	for _, a := range s.Achievements {
		achieved[a.ID] = a.Achieved
	}
	s.Achievements = Achievements()
	for i := range s.Achievements {
		s.Achievements[i].Achieved = achieved[s.Achievements[i].ID]
	}

	costs := make(map[ItemID]float64, len(s.SpecialItems))
	for _, it := range s.SpecialItems {
		costs[it.ID] = it.Cost
	}
	s.SpecialItems = Items()
	for i := range s.SpecialItems {
		if c, ok := costs[s.SpecialItems[i].ID]; ok && c > 0 {
			s.SpecialItems[i].Cost = c
		}
	}

	if s.ClickPower <= 0 {
		s.ClickPower = InitialClickPower
	}
	if s.AutoCost <= 0 {
		s.AutoCost = InitialAutoCost
	}
	if s.UpgradeCost <= 0 {
		s.UpgradeCost = InitialUpgradeCost
	}
	if s.DonationMultiplierClicks < 0 {
		s.DonationMultiplierClicks = 0
	}
}
