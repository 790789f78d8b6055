package models

var achievementCatalog = []Achievement{
	{ID: "donations10", Name: "Novice Donor", Description: "Reach 100 donations", Kind: KindDonations, Threshold: 100},
	{ID: "donations100", Name: "Generous Soul", Description: "Reach 10000 donations", Kind: KindDonations, Threshold: 10000},
	{ID: "donations1000", Name: "Philanthropist", Description: "Reach 100,000 donations", Kind: KindDonations, Threshold: 100000},
	{ID: "donations10000", Name: "Benefactor", Description: "Reach 10,000,000 donations", Kind: KindDonations, Threshold: 10000000},
	{ID: "donations100000", Name: "Humanitarian", Description: "Reach 1,000,000,000 donations", Kind: KindDonations, Threshold: 1000000000},
	{ID: "autoclickers1", Name: "Automation Beginner", Description: "Have 1 auto-clicker", Kind: KindAutoClickers, Threshold: 1},
	{ID: "autoclickers5", Name: "Booming Business", Description: "Have 5 auto-clickers", Kind: KindAutoClickers, Threshold: 5},
	{ID: "autoclickers25", Name: "Automation Expert", Description: "Have 25 auto-clickers", Kind: KindAutoClickers, Threshold: 25},
	{ID: "autoclickers100", Name: "Automation Tycoon", Description: "Have 100 auto-clickers", Kind: KindAutoClickers, Threshold: 100},
	{ID: "clickpower5", Name: "Power Donor", Description: "Reach click power of 5", Kind: KindClickPower, Threshold: 5},
	{ID: "clickpower25", Name: "Super Donor", Description: "Reach click power of 25", Kind: KindClickPower, Threshold: 25},
	{ID: "clickpower100", Name: "Mega Donor", Description: "Reach click power of 100", Kind: KindClickPower, Threshold: 100},
	{ID: "specialitems1", Name: "Treasure Hunter", Description: "Acquire 1 special item", Kind: KindSpecialItems, Threshold: 1},
	{ID: "specialitems5", Name: "Collector", Description: "Acquire 5 special items", Kind: KindSpecialItems, Threshold: 5},
}

var itemCatalog = []SpecialItemState{
	{ID: GoldenHeart, Name: "Golden Heart", Description: "Doubles your click power for 30 seconds", Cost: 10000, DurationMs: 30000},
	{ID: LuckyCharm, Name: "Lucky Charm", Description: "20% chance to get double donations for 1 minute", Cost: 1000, DurationMs: 60000},
	{ID: TimeWarp, Name: "Time Warp", Description: "Triples auto-clicker output for 30 seconds", Cost: 100000, DurationMs: 30000},
	{ID: DonationMultiplier, Name: "Donation Multiplier", Description: "Triples your donations for the next 20 clicks", Cost: 70000, DurationMs: 30000},
	{ID: FrostBonus, Name: "Frost Bonus", Description: "Freezes auto-clicker cost increase for 5 seconds", Cost: 500000, DurationMs: 5000},
	{ID: PowerSurge, Name: "Power Surge", Description: "Doubles the click power for 30 seconds", Cost: 180000, DurationMs: 30000},
	{ID: AutoBoost, Name: "Auto Boost", Description: "Triples auto-clickers for 20 seconds", Cost: 5000000, DurationMs: 20000},
	{ID: RainbowBoost, Name: "Rainbow Boost", Description: "1.5x donations and auto-clickers for 15 seconds", Cost: 2500000, DurationMs: 15000},
}

// Achievements returns a fresh copy of the achievement catalog, all unachieved.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievementCatalog...)
}

// Items returns a fresh copy of the special item catalog at default costs.
func Items() []SpecialItemState {
	return append([]SpecialItemState(nil), itemCatalog...)
}

// CatalogItem looks up the default definition for id.
func CatalogItem(id ItemID) (SpecialItemState, bool) {
	for _, it := range itemCatalog {
		if it.ID == id {
			return it, true
		}
	}
	return SpecialItemState{}, false
}
