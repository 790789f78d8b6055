package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/models"
)

// Persister stores the economy and its running buffs. *models.Gateway
// implements it.
type Persister interface {
	Save(ctx context.Context, s *models.EconomyState) error
	SaveEffects(ctx context.Context, recs []models.EffectRecord) error
	Clear(ctx context.Context) error
}

// Engine is the single owner of the game. Every command is applied under
// one lock against the latest state, so timer callbacks and key presses
// that race each other compose instead of overwriting each other.
type Engine struct {
	mu         sync.Mutex
	state      *models.EconomyState
	effects    ActiveEffects
	tax        TaxEvent
	ackReadyAt time.Time
	lastSaved  time.Time
	pending    []Event
	restored   []models.EffectRecord

	clock     Clock
	rng       Rand
	taxDelay  func(Rand) time.Duration
	notifier  Notifier
	persister Persister
	log       *slog.Logger
}

type Option func(*Engine)

func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithTaxDelay replaces the tax arrival distribution.
func WithTaxDelay(f func(Rand) time.Duration) Option { return func(e *Engine) { e.taxDelay = f } }

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

func WithPersister(p Persister) Option { return func(e *Engine) { e.persister = p } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithEffects resumes buffs saved by an earlier run of the same state.
func WithEffects(recs []models.EffectRecord) Option {
	return func(e *Engine) { e.restored = recs }
}

// New takes ownership of state. A nil state starts a new game.
func New(state *models.EconomyState, opts ...Option) *Engine {
	if state == nil {
		state = models.NewState()
	}
	e := &Engine{
		state:    state,
		clock:    RealClock{},
		taxDelay: NextTaxDelay,
		notifier: discard{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(uint64(e.clock.Now().UnixNano()))
	}
	e.effects = RestoreEffects(state, e.restored)
	e.restored = nil
	return e
}

// update runs fn against the current state, evaluates achievements, then
// delivers queued events outside the lock. Unlocked achievements are
// saved right away.
func (e *Engine) update(fn func(now time.Time)) {
	e.mu.Lock()
	fn(e.clock.Now())
	unlocked := EvaluateAchievements(e.state, len(e.effects))
	for _, a := range unlocked {
		e.emit(Event{Kind: EventAchievementUnlocked, Achievement: a})
	}
	var (
		snapshot *models.EconomyState
		recs     []models.EffectRecord
	)
	if len(unlocked) > 0 && e.persister != nil {
		snapshot, recs = e.state.Clone(), e.effects.Records()
	}
	events := e.pending
	e.pending = nil
	e.mu.Unlock()

	if snapshot != nil {
		e.persist(context.Background(), snapshot, recs)
	}
	for _, ev := range events {
		e.notifier.Notify(ev)
	}
}

func (e *Engine) emit(ev Event) { e.pending = append(e.pending, ev) }

// Click donates once and returns the gain. While a tax event is pending the
// same click also counts toward preventing it.
func (e *Engine) Click() float64 {
	var gain float64
	e.update(func(time.Time) {
		gain = Click(e.state, e.rng)
		e.preventLocked()
	})
	return gain
}

func (e *Engine) PurchaseAutoClicker() bool {
	var ok bool
	e.update(func(time.Time) { ok = PurchaseAutoClicker(e.state) })
	return ok
}

func (e *Engine) PurchaseUpgrade() bool {
	var ok bool
	e.update(func(time.Time) { ok = PurchaseUpgrade(e.state) })
	return ok
}

func (e *Engine) PurchaseSpecialItem(id models.ItemID) bool {
	var ok bool
	e.update(func(now time.Time) {
		ok = PurchaseSpecialItem(e.state, e.effects, id, now)
		if ok {
			e.log.Info("special item activated", "item", id)
			if it, found := models.CatalogItem(id); found {
				e.emit(Event{Kind: EventItemActivated, Item: it})
			}
		}
	})
	return ok
}

// Tick accrues one period of automation and ends expired buffs, then
// autosaves. A failed save is logged and retried on the next tick.
func (e *Engine) Tick(ctx context.Context) {
	e.update(func(now time.Time) {
		Tick(e.state)
		for _, id := range Sweep(e.state, e.effects, now) {
			if it, found := models.CatalogItem(id); found {
				e.emit(Event{Kind: EventItemExpired, Item: it})
			}
		}
	})
	_ = e.Save(ctx)
}

// Save writes the current state through the persister.
func (e *Engine) Save(ctx context.Context) error {
	if e.persister == nil {
		return nil
	}
	e.mu.Lock()
	snapshot, recs := e.state.Clone(), e.effects.Records()
	e.mu.Unlock()
	return e.persist(ctx, snapshot, recs)
}

// persist writes the buffs before the state they were applied to.
func (e *Engine) persist(ctx context.Context, s *models.EconomyState, recs []models.EffectRecord) error {
	if err := e.persister.SaveEffects(ctx, recs); err != nil {
		e.log.Warn("autosave failed", "err", err)
		return err
	}
	if err := e.persister.Save(ctx, s); err != nil {
		e.log.Warn("autosave failed", "err", err)
		return err
	}
	e.mu.Lock()
	e.lastSaved = e.clock.Now()
	e.mu.Unlock()
	return nil
}

// Reset starts over: fresh state, no buffs, no tax event. The saved slots
// are removed; the next Tick or Save writes the fresh state.
func (e *Engine) Reset(ctx context.Context) error {
	e.update(func(time.Time) {
		e.state = models.NewState()
		e.effects = ActiveEffects{}
		e.tax = TaxEvent{Seq: e.tax.Seq}
		e.ackReadyAt = time.Time{}
		e.emit(Event{Kind: EventGameReset})
	})
	e.log.Info("game reset")
	if e.persister == nil {
		return nil
	}
	return e.persister.Clear(ctx)
}

// NextTaxDelay draws how long to wait before calling FireTax again.
func (e *Engine) NextTaxDelay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.taxDelay(e.rng)
}

// FireTax opens a tax event. Arrivals while one is already open are
// dropped; the caller reschedules regardless.
func (e *Engine) FireTax() bool {
	var ok bool
	e.update(func(time.Time) {
		if e.tax.Phase != TaxIdle {
			e.log.Debug("tax arrival skipped", "phase", e.tax.Phase)
			return
		}
		e.tax = BeginTax(e.tax.Seq+1, e.state.Currency, DrawTaxRate(e.rng))
		e.log.Info("tax event", "seq", e.tax.Seq, "rate", e.tax.Rate, "amount", e.tax.Amount,
			"required_clicks", e.tax.RequiredClicks, "time_limit", e.tax.TimeLimit)
		e.emit(Event{Kind: EventTaxStarted, Tax: e.tax})
		ok = true
	})
	return ok
}

// ForceTaxEvent is the debug trigger; it follows the same rules as FireTax.
func (e *Engine) ForceTaxEvent() bool { return e.FireTax() }

// PreventClick counts a prevent click without donating.
func (e *Engine) PreventClick() bool {
	var ok bool
	e.update(func(time.Time) { ok = e.preventLocked() })
	return ok
}

func (e *Engine) preventLocked() bool {
	if e.tax.Phase != TaxPending {
		return false
	}
	if e.tax.Prevent() {
		e.emit(Event{Kind: EventTaxResolved, Tax: e.tax})
	}
	return true
}

// CountdownTick advances the pending tax clock by one step. seq must match
// the running event; ticks left over from an earlier event are ignored.
func (e *Engine) CountdownTick(seq uint64) bool {
	var ok bool
	e.update(func(time.Time) {
		if e.tax.Phase != TaxPending || e.tax.Seq != seq {
			return
		}
		ok = true
		if e.tax.Countdown(TaxCountdownStep) {
			e.log.Info("tax timed out", "seq", e.tax.Seq, "outcome", e.tax.Outcome)
			e.emit(Event{Kind: EventTaxResolved, Tax: e.tax})
		}
	})
	return ok
}

// Acknowledge closes a resolved tax event, paying it if it was lost. It
// is refused while the previous acknowledgement is cooling down.
func (e *Engine) Acknowledge() (TaxOutcome, bool) {
	var (
		outcome TaxOutcome
		ok      bool
	)
	e.update(func(now time.Time) {
		if e.tax.Phase != TaxResolved || now.Before(e.ackReadyAt) {
			return
		}
		closed := e.tax
		outcome = closed.Outcome
		paid := e.tax.Settle(e.state)
		e.ackReadyAt = now.Add(AcknowledgeCooldown)
		e.log.Info("tax acknowledged", "seq", closed.Seq, "outcome", outcome, "paid", paid)
		e.emit(Event{Kind: EventTaxAcknowledged, Tax: closed, Paid: paid})
		ok = true
	})
	return outcome, ok
}

// Snapshot is a read-only copy of everything the presentation shows.
type Snapshot struct {
	Now        time.Time
	State      *models.EconomyState
	Effects    []ActiveEffect
	Tax        TaxEvent
	AckReadyAt time.Time
	LastSaved  time.Time
}

func (s Snapshot) Active(id models.ItemID) (ActiveEffect, bool) {
	for _, fx := range s.Effects {
		if fx.ID == id {
			return fx, true
		}
	}
	return ActiveEffect{}, false
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	effects := make([]ActiveEffect, 0, len(e.effects))
	for _, fx := range e.effects {
		effects = append(effects, fx)
	}
	sort.Slice(effects, func(i, j int) bool {
		if !effects[i].ExpiresAt.Equal(effects[j].ExpiresAt) {
			return effects[i].ExpiresAt.Before(effects[j].ExpiresAt)
		}
		return effects[i].ID < effects[j].ID
	})
	return Snapshot{
		Now:        e.clock.Now(),
		State:      e.state.Clone(),
		Effects:    effects,
		Tax:        e.tax,
		AckReadyAt: e.ackReadyAt,
		LastSaved:  e.lastSaved,
	}
}
