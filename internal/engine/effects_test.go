package engine

import (
	"testing"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func richState() *models.EconomyState {
	s := models.NewState()
	s.Currency = 1e9
	s.ClickPower = 5
	s.AutoRate = 2
	return s
}

func TestEffectTable_CoversCatalog(t *testing.T) {
	for _, it := range models.Items() {
		fx, ok := effectTable[it.ID]
		require.True(t, ok, "missing effect for %s", it.ID)
		assert.NotNil(t, fx.activate, it.ID)
		assert.NotNil(t, fx.expire, it.ID)
		assert.Positive(t, it.DurationMs, it.ID)
	}
	assert.Len(t, effectTable, len(models.Items()))
}

func TestPurchaseSpecialItem_ThenExpiry_IsSymmetric(t *testing.T) {
	for _, it := range models.Items() {
		t.Run(string(it.ID), func(t *testing.T) {
			s := richState()
			effects := ActiveEffects{}
			before := s.Clone()

			require.True(t, PurchaseSpecialItem(s, effects, it.ID, epoch))
			assert.Equal(t, before.Currency-it.Cost, s.Currency)
			require.Contains(t, effects, it.ID)
			assert.Equal(t, epoch.Add(time.Duration(it.DurationMs)*time.Millisecond), effects[it.ID].ExpiresAt)

			expired := Sweep(s, effects, effects[it.ID].ExpiresAt.Add(time.Millisecond))
			assert.Equal(t, []models.ItemID{it.ID}, expired)
			assert.Empty(t, effects)

			assert.Equal(t, before.ClickPower, s.ClickPower)
			assert.Equal(t, before.AutoRate, s.AutoRate)
			assert.False(t, s.LuckyCharmActive)
			assert.False(t, s.FrostBonusActive)
			assert.False(t, s.TimeWarpActive)
			assert.False(t, s.RainbowBoostActive)
			assert.Zero(t, s.DonationMultiplierClicks)
			assert.Zero(t, s.SpecialItemBonus.ClickPower)
			assert.Zero(t, s.SpecialItemBonus.AutoClickerPower)
		})
	}
}

func TestPurchaseSpecialItem_Activation(t *testing.T) {
	tests := []struct {
		id    models.ItemID
		check func(t *testing.T, s *models.EconomyState)
	}{
		{models.GoldenHeart, func(t *testing.T, s *models.EconomyState) {
			assert.Equal(t, 10.0, s.ClickPower)
			assert.Equal(t, 5.0, s.SpecialItemBonus.ClickPower)
		}},
		{models.LuckyCharm, func(t *testing.T, s *models.EconomyState) { assert.True(t, s.LuckyCharmActive) }},
		{models.TimeWarp, func(t *testing.T, s *models.EconomyState) {
			assert.True(t, s.TimeWarpActive)
			assert.Equal(t, 4.0, s.SpecialItemBonus.AutoClickerPower)
		}},
		{models.DonationMultiplier, func(t *testing.T, s *models.EconomyState) { assert.Equal(t, 20, s.DonationMultiplierClicks) }},
		{models.FrostBonus, func(t *testing.T, s *models.EconomyState) { assert.True(t, s.FrostBonusActive) }},
		{models.PowerSurge, func(t *testing.T, s *models.EconomyState) { assert.Equal(t, 10.0, s.ClickPower) }},
		{models.AutoBoost, func(t *testing.T, s *models.EconomyState) { assert.Equal(t, 6.0, s.AutoRate) }},
		{models.RainbowBoost, func(t *testing.T, s *models.EconomyState) { assert.True(t, s.RainbowBoostActive) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			s := richState()
			require.True(t, PurchaseSpecialItem(s, ActiveEffects{}, tt.id, epoch))
			tt.check(t, s)
		})
	}
}

func TestPurchaseSpecialItem_CostGrows(t *testing.T) {
	s := richState()
	require.True(t, PurchaseSpecialItem(s, ActiveEffects{}, models.GoldenHeart, epoch))
	assert.Equal(t, 20500.0, s.Item(models.GoldenHeart).Cost)
	assert.Equal(t, 1000.0, s.Item(models.LuckyCharm).Cost, "other items keep their price")
}

func TestPurchaseSpecialItem_UnknownItem(t *testing.T) {
	s := richState()
	before := s.Clone()
	effects := ActiveEffects{}
	assert.False(t, PurchaseSpecialItem(s, effects, "superNova", epoch))
	assert.Equal(t, before, s)
	assert.Empty(t, effects)
}

func TestPurchaseSpecialItem_RebuyExtendsAndStacks(t *testing.T) {
	s := richState()
	s.ClickPower = 1
	effects := ActiveEffects{}

	require.True(t, PurchaseSpecialItem(s, effects, models.PowerSurge, epoch))
	later := epoch.Add(10 * time.Second)
	require.True(t, PurchaseSpecialItem(s, effects, models.PowerSurge, later))
	assert.Equal(t, 4.0, s.ClickPower)
	assert.Equal(t, later.Add(30*time.Second), effects[models.PowerSurge].ExpiresAt)

	assert.Empty(t, Sweep(s, effects, epoch.Add(31*time.Second)), "first expiry was superseded")
	Sweep(s, effects, later.Add(31*time.Second))
	assert.Equal(t, 1.0, s.ClickPower)
}

func TestSweep_StrictlyAfterExpiry(t *testing.T) {
	s := richState()
	effects := ActiveEffects{}
	require.True(t, PurchaseSpecialItem(s, effects, models.FrostBonus, epoch))
	expiry := effects[models.FrostBonus].ExpiresAt

	assert.Empty(t, Sweep(s, effects, expiry.Add(-time.Second)))
	assert.Empty(t, Sweep(s, effects, expiry))
	assert.True(t, s.FrostBonusActive)
	assert.Equal(t, []models.ItemID{models.FrostBonus}, Sweep(s, effects, expiry.Add(time.Nanosecond)))
	assert.False(t, s.FrostBonusActive)
}

func TestSweep_BonusUsesCurrentStats(t *testing.T) {
	t.Run("golden heart after an upgrade", func(t *testing.T) {
		s := richState()
		effects := ActiveEffects{}
		require.True(t, PurchaseSpecialItem(s, effects, models.GoldenHeart, epoch))
		require.True(t, PurchaseUpgrade(s))
		assert.Equal(t, 11.0, s.ClickPower)

		Sweep(s, effects, epoch.Add(time.Minute))
		assert.Zero(t, s.SpecialItemBonus.ClickPower)
		assert.Equal(t, 6.0, s.ClickPower, "the doubling is taken back, the upgrade stays")
	})

	t.Run("time warp with a smaller auto rate", func(t *testing.T) {
		s := richState()
		s.SpecialItemBonus.AutoClickerPower = 10
		effects := ActiveEffects{}
		require.True(t, PurchaseSpecialItem(s, effects, models.TimeWarp, epoch))
		assert.Equal(t, 14.0, s.SpecialItemBonus.AutoClickerPower)

		s.AutoRate = 1
		Sweep(s, effects, epoch.Add(time.Minute))
		assert.Equal(t, 12.0, s.SpecialItemBonus.AutoClickerPower, "only 2x the current rate is removed")
	})
}

func TestSweep_StackedClickBuffsUnwindInAnyOrder(t *testing.T) {
	s := richState()
	s.ClickPower = 3
	effects := ActiveEffects{}
	require.True(t, PurchaseSpecialItem(s, effects, models.PowerSurge, epoch))
	require.True(t, PurchaseSpecialItem(s, effects, models.GoldenHeart, epoch.Add(20*time.Second)))
	assert.Equal(t, 12.0, s.ClickPower)

	Sweep(s, effects, epoch.Add(31*time.Second))
	assert.Equal(t, 9.0, s.ClickPower)
	Sweep(s, effects, epoch.Add(51*time.Second))
	assert.Equal(t, 3.0, s.ClickPower)
}

func TestRestoreEffects_ClearsFlagsWithoutRecords(t *testing.T) {
	s := models.NewState()
	s.AutoRate = 1
	s.LuckyCharmActive = true
	s.FrostBonusActive = true
	s.TimeWarpActive = true
	s.SpecialItemBonus.AutoClickerPower = 2
	s.RainbowBoostActive = true
	s.DonationMultiplierClicks = 12

	effects := RestoreEffects(s, []models.EffectRecord{
		{ID: models.LuckyCharm, ExpiresAt: epoch.Add(time.Minute)},
		{ID: "superNova", ExpiresAt: epoch},
	})

	assert.Len(t, effects, 1)
	assert.True(t, s.LuckyCharmActive, "still backed by a record")
	assert.False(t, s.FrostBonusActive)
	assert.False(t, s.TimeWarpActive)
	assert.Zero(t, s.SpecialItemBonus.AutoClickerPower)
	assert.False(t, s.RainbowBoostActive)
	assert.Zero(t, s.DonationMultiplierClicks)
}

func TestActiveEffects_RecordsRoundTrip(t *testing.T) {
	s := richState()
	effects := ActiveEffects{}
	require.True(t, PurchaseSpecialItem(s, effects, models.PowerSurge, epoch))
	require.True(t, PurchaseSpecialItem(s, effects, models.AutoBoost, epoch))

	recs := effects.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, models.AutoBoost, recs[0].ID)
	assert.Equal(t, effects, RestoreEffects(s, recs))
}
