package engine

import "github.com/Ozsumit/csf-pwa/internal/models"

// EvaluateAchievements flips every unachieved achievement whose threshold
// has been reached and returns the ones it flipped. activeItems is the
// number of distinct buffs currently running.
func EvaluateAchievements(s *models.EconomyState, activeItems int) []models.Achievement {
	var unlocked []models.Achievement
	for i := range s.Achievements {
		a := &s.Achievements[i]
		if a.Achieved || measure(s, a.Kind, activeItems) < a.Threshold {
			continue
		}
		a.Achieved = true
		unlocked = append(unlocked, *a)
	}
	return unlocked
}

func measure(s *models.EconomyState, kind models.AchievementKind, activeItems int) float64 {
	switch kind {
	case models.KindDonations:
		return s.Currency
	case models.KindAutoClickers:
		return s.AutoRate
	case models.KindClickPower:
		return s.ClickPower
	case models.KindSpecialItems:
		return float64(activeItems)
	default:
		return 0
	}
}
