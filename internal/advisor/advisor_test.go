package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/Ozsumit/csf-pwa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newEngine(s *models.EconomyState) *engine.Engine {
	return engine.New(s, engine.WithClock(engine.NewFakeClock(epoch)), engine.WithRand(engine.NewRand(1)))
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Suggestion
		wantErr bool
	}{
		{
			name: "plain",
			text: "action: buy_upgrade\nreason: cheap",
			want: Suggestion{Action: ActionBuyUpgrade, Reason: "cheap"},
		},
		{
			name: "fenced and shouty",
			text: "```yaml\naction: DONATE\nreason: broke\n```",
			want: Suggestion{Action: ActionDonate, Reason: "broke"},
		},
		{
			name: "item",
			text: "action: buy_item\nitem: luckyCharm\nreason: luck",
			want: Suggestion{Action: ActionBuyItem, Item: models.LuckyCharm, Reason: "luck"},
		},
		{name: "unknown item", text: "action: buy_item\nitem: superNova", wantErr: true},
		{name: "unknown action", text: "action: sell_everything", wantErr: true},
		{name: "not yaml", text: "action: [", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestion(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGreedy(t *testing.T) {
	ctx := context.Background()

	t.Run("donates when broke", func(t *testing.T) {
		got, err := Greedy{}.Suggest(ctx, newEngine(nil).Snapshot())
		require.NoError(t, err)
		assert.Equal(t, ActionDonate, got.Action)
	})

	t.Run("buys the cheaper of auto and upgrade", func(t *testing.T) {
		s := models.NewState()
		s.Currency = 60
		got, _ := Greedy{}.Suggest(ctx, newEngine(s).Snapshot())
		assert.Equal(t, ActionBuyAuto, got.Action)

		s = models.NewState()
		s.Currency = 60
		s.AutoCost = 100
		got, _ = Greedy{}.Suggest(ctx, newEngine(s).Snapshot())
		assert.Equal(t, ActionBuyUpgrade, got.Action)
	})

	t.Run("fights a pending tax", func(t *testing.T) {
		eng := newEngine(nil)
		require.True(t, eng.FireTax())
		got, _ := Greedy{}.Suggest(ctx, eng.Snapshot())
		assert.Equal(t, ActionPrevent, got.Action)

		for eng.Snapshot().Tax.Phase == engine.TaxPending {
			require.True(t, Apply(eng, got))
		}
		got, _ = Greedy{}.Suggest(ctx, eng.Snapshot())
		assert.Equal(t, ActionAcknowledge, got.Action)
		assert.True(t, Apply(eng, got))
		assert.Equal(t, engine.TaxIdle, eng.Snapshot().Tax.Phase)
	})

	t.Run("splurges on buffs with plenty saved", func(t *testing.T) {
		s := models.NewState()
		s.Currency = 20000
		s.AutoCost = 1e9
		s.UpgradeCost = 1e9
		got, _ := Greedy{}.Suggest(ctx, newEngine(s).Snapshot())
		assert.Equal(t, Suggestion{Action: ActionBuyItem, Item: models.LuckyCharm, Reason: "buff is cheap relative to savings"}, got)
	})
}

func TestApply_RejectedPurchase(t *testing.T) {
	eng := newEngine(nil)
	assert.False(t, Apply(eng, Suggestion{Action: ActionBuyUpgrade}))
	assert.False(t, Apply(eng, Suggestion{Action: "dance"}))
	assert.True(t, Apply(eng, Suggestion{Action: ActionDonate}))
	assert.Equal(t, 1.0, eng.Snapshot().State.Currency)
}

func TestRenderPrompt(t *testing.T) {
	s := models.NewState()
	s.Currency = 1234
	eng := newEngine(s)
	require.True(t, eng.PurchaseSpecialItem(models.LuckyCharm))

	prompt, err := renderPrompt(eng.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, prompt, "Coins: 234")
	assert.Contains(t, prompt, `luckyCharm "Lucky Charm" costs 2050 (already active)`)
	assert.Contains(t, prompt, "Tax event: idle")
}
