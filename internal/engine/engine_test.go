package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/models"
	"github.com/Ozsumit/csf-pwa/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) ofKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []EventKind
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fixture struct {
	eng   *Engine
	clock *FakeClock
	store *storage.MemoryStore
	gw    *models.Gateway
	rec   *recorder
}

func newFixture(t *testing.T, state *models.EconomyState, rolls ...float64) fixture {
	t.Helper()
	clock := NewFakeClock(epoch)
	store := storage.NewMemoryStore()
	gw := models.NewGateway(store, nil)
	rec := &recorder{}
	eng := New(state,
		WithClock(clock),
		WithRand(&scriptedRand{vals: rolls}),
		WithNotifier(rec),
		WithPersister(gw),
	)
	return fixture{eng: eng, clock: clock, store: store, gw: gw, rec: rec}
}

func TestEngine_ClickAndPurchase(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 10; i++ {
		f.eng.Click()
	}
	assert.True(t, f.eng.PurchaseAutoClicker())
	assert.False(t, f.eng.PurchaseUpgrade())

	s := f.eng.Snapshot().State
	assert.Equal(t, 0.0, s.Currency)
	assert.Equal(t, 0.5, s.AutoRate)
	assert.Equal(t, 22.0, s.AutoCost)
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	f := newFixture(t, nil)
	snap := f.eng.Snapshot()
	snap.State.Currency = 1e9
	snap.State.Achievements[0].Achieved = true
	assert.Zero(t, f.eng.Snapshot().State.Currency)
	assert.False(t, f.eng.Snapshot().State.Achievements[0].Achieved)
}

func TestEngine_AchievementUnlockNotifiesAndSaves(t *testing.T) {
	s := models.NewState()
	s.Currency = 99
	f := newFixture(t, s)

	f.eng.Click()
	assert.Equal(t, []EventKind{EventAchievementUnlocked}, f.rec.kinds())
	assert.Equal(t, "donations10", f.rec.events[0].Achievement.ID)

	saved := f.gw.Load(context.Background())
	assert.Equal(t, 100.0, saved.Currency)
	assert.True(t, saved.Achievements[0].Achieved)

	f.eng.Click()
	assert.Len(t, f.rec.kinds(), 1, "unlock is one-shot")
}

func TestEngine_SpecialItemLifecycle(t *testing.T) {
	s := models.NewState()
	s.Currency = 5000
	f := newFixture(t, s)

	require.True(t, f.eng.PurchaseSpecialItem(models.LuckyCharm))
	snap := f.eng.Snapshot()
	fx, ok := snap.Active(models.LuckyCharm)
	require.True(t, ok)
	assert.Equal(t, epoch.Add(time.Minute), fx.ExpiresAt)
	assert.True(t, snap.State.LuckyCharmActive)

	f.clock.Advance(61 * time.Second)
	f.eng.Tick(context.Background())
	snap = f.eng.Snapshot()
	assert.Empty(t, snap.Effects)
	assert.False(t, snap.State.LuckyCharmActive)

	// donations10 and specialitems1 unlock on the purchase itself
	assert.Equal(t, []EventKind{EventItemActivated, EventAchievementUnlocked, EventAchievementUnlocked, EventItemExpired}, f.rec.kinds())
}

func TestEngine_TickAutosaves(t *testing.T) {
	s := models.NewState()
	s.AutoRate = 2
	f := newFixture(t, s)

	f.eng.Tick(context.Background())
	assert.Equal(t, 2.0, f.gw.Load(context.Background()).Currency)
	assert.Equal(t, epoch, f.eng.Snapshot().LastSaved)
}

func TestEngine_TickSurvivesSaveFailure(t *testing.T) {
	s := models.NewState()
	s.AutoRate = 2
	f := newFixture(t, s)
	f.store.FailWrites = errors.New("quota exceeded")

	f.eng.Tick(context.Background())
	f.eng.Tick(context.Background())
	assert.Equal(t, 4.0, f.eng.Snapshot().State.Currency)
	assert.True(t, f.eng.Snapshot().LastSaved.IsZero())

	f.store.FailWrites = nil
	f.eng.Tick(context.Background())
	assert.Equal(t, 6.0, f.gw.Load(context.Background()).Currency)
}

func TestEngine_Reset(t *testing.T) {
	s := models.NewState()
	s.Currency = 1e6
	f := newFixture(t, s)
	ctx := context.Background()

	require.True(t, f.eng.PurchaseSpecialItem(models.FrostBonus))
	require.True(t, f.eng.FireTax())
	require.NoError(t, f.eng.Save(ctx))

	require.NoError(t, f.eng.Reset(ctx))
	snap := f.eng.Snapshot()
	assert.Equal(t, models.NewState(), snap.State)
	assert.Empty(t, snap.Effects)
	assert.Equal(t, TaxIdle, snap.Tax.Phase)
	assert.Equal(t, models.NewState(), f.gw.Load(ctx))
	assert.Contains(t, f.rec.kinds(), EventGameReset)
	for _, key := range []string{models.SaveKey, models.EffectsKey} {
		_, err := f.store.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, "slot %s removed", key)
	}
}

func TestEngine_BuffsEndAfterRestart(t *testing.T) {
	ctx := context.Background()
	s := models.NewState()
	s.Currency = 1e7
	s.AutoRate = 2
	f := newFixture(t, s)
	for _, id := range []models.ItemID{models.FrostBonus, models.PowerSurge, models.AutoBoost} {
		require.True(t, f.eng.PurchaseSpecialItem(id))
	}
	require.NoError(t, f.eng.Save(ctx))

	saved := f.gw.Load(ctx)
	require.True(t, saved.FrostBonusActive)
	require.Equal(t, 2.0, saved.ClickPower)
	require.Equal(t, 6.0, saved.AutoRate)

	// an hour later, in a new process
	restarted := New(saved,
		WithClock(NewFakeClock(epoch.Add(time.Hour))),
		WithEffects(f.gw.LoadEffects(ctx)),
		WithPersister(f.gw),
	)
	require.Len(t, restarted.Snapshot().Effects, 3)
	restarted.Tick(ctx)

	snap := restarted.Snapshot()
	assert.Empty(t, snap.Effects)
	assert.False(t, snap.State.FrostBonusActive)
	assert.Equal(t, 1.0, snap.State.ClickPower)
	assert.Equal(t, 2.0, snap.State.AutoRate)
	assert.Empty(t, f.gw.LoadEffects(ctx))
}

func TestEngine_TaxAvoidedByDonating(t *testing.T) {
	s := models.NewState()
	s.Currency = 1000
	// rate draw of 0 gives a 40% tax: 19 clicks in 7.4s
	f := newFixture(t, s, 0)

	require.True(t, f.eng.FireTax())
	tax := f.eng.Snapshot().Tax
	assert.Equal(t, TaxPending, tax.Phase)
	assert.Equal(t, 400.0, tax.Amount)
	assert.Equal(t, 19, tax.RequiredClicks)

	for i := 0; i < 19; i++ {
		f.eng.Click()
	}
	snap := f.eng.Snapshot()
	assert.Equal(t, TaxResolved, snap.Tax.Phase)
	assert.Equal(t, TaxAvoided, snap.Tax.Outcome)
	assert.Equal(t, 1019.0, snap.State.Currency, "prevent clicks still donate")

	outcome, ok := f.eng.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, TaxAvoided, outcome)
	assert.Equal(t, 1019.0, f.eng.Snapshot().State.Currency)
	assert.Equal(t, TaxIdle, f.eng.Snapshot().Tax.Phase)
}

func TestEngine_TaxPaidAtAcknowledgement(t *testing.T) {
	s := models.NewState()
	s.Currency = 1000
	f := newFixture(t, s, 0)

	require.True(t, f.eng.FireTax())
	seq := f.eng.Snapshot().Tax.Seq
	assert.True(t, f.eng.PreventClick())

	_, ok := f.eng.Acknowledge()
	assert.False(t, ok, "cannot close while pending")

	for f.eng.Snapshot().Tax.Phase == TaxPending {
		require.True(t, f.eng.CountdownTick(seq))
	}
	assert.Equal(t, TaxPaid, f.eng.Snapshot().Tax.Outcome)
	assert.Equal(t, 1000.0, f.eng.Snapshot().State.Currency)

	outcome, ok := f.eng.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, TaxPaid, outcome)
	assert.Equal(t, 600.0, f.eng.Snapshot().State.Currency)

	last := f.rec.events[len(f.rec.events)-1]
	assert.Equal(t, EventTaxAcknowledged, last.Kind)
	assert.Equal(t, 400.0, last.Paid)
}

func TestEngine_FireTaxWhileOpenIsSkipped(t *testing.T) {
	f := newFixture(t, nil, 0)
	require.True(t, f.eng.FireTax())
	assert.False(t, f.eng.ForceTaxEvent())
	assert.Equal(t, uint64(1), f.eng.Snapshot().Tax.Seq)
}

func TestEngine_StaleCountdownIgnored(t *testing.T) {
	s := models.NewState()
	s.Currency = 1000
	f := newFixture(t, s, 0)

	require.True(t, f.eng.FireTax())
	for i := 0; i < 19; i++ {
		f.eng.PreventClick()
	}
	_, ok := f.eng.Acknowledge()
	require.True(t, ok)

	f.clock.Advance(AcknowledgeCooldown)
	require.True(t, f.eng.FireTax())
	tax := f.eng.Snapshot().Tax
	assert.Equal(t, uint64(2), tax.Seq)

	assert.False(t, f.eng.CountdownTick(1))
	assert.Equal(t, tax.TimeLimit, f.eng.Snapshot().Tax.TimeLeft)
	assert.True(t, f.eng.CountdownTick(2))
	assert.Equal(t, tax.TimeLimit-time.Second, f.eng.Snapshot().Tax.TimeLeft)
}

func TestEngine_AcknowledgeCooldown(t *testing.T) {
	s := models.NewState()
	s.Currency = 1000
	f := newFixture(t, s, 0)

	win := func() {
		require.True(t, f.eng.FireTax())
		for f.eng.Snapshot().Tax.Phase == TaxPending {
			f.eng.PreventClick()
		}
	}

	win()
	_, ok := f.eng.Acknowledge()
	require.True(t, ok)

	win()
	f.clock.Advance(9 * time.Second)
	_, ok = f.eng.Acknowledge()
	assert.False(t, ok, "still cooling down")
	assert.Equal(t, TaxResolved, f.eng.Snapshot().Tax.Phase)

	f.clock.Advance(time.Second)
	_, ok = f.eng.Acknowledge()
	assert.True(t, ok)
}

func TestEngine_ConcurrentCommandsCompose(t *testing.T) {
	s := models.NewState()
	s.AutoRate = 1
	f := newFixture(t, s)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				f.eng.Click()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				f.eng.Tick(ctx)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20*50+20*5.0, f.eng.Snapshot().State.Currency)
}

func TestEngine_NotifierMayCallBack(t *testing.T) {
	s := models.NewState()
	s.Currency = 99
	var eng *Engine
	var seen float64
	eng = New(s, WithClock(NewFakeClock(epoch)), WithNotifier(NotifierFunc(func(Event) {
		seen = eng.Snapshot().State.Currency
	})))

	eng.Click()
	assert.Equal(t, 100.0, seen)
}
