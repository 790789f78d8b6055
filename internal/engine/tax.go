package engine

import (
	"math"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/models"
)

type TaxPhase int

const (
	TaxIdle TaxPhase = iota
	TaxPending
	TaxResolved
)

func (p TaxPhase) String() string {
	switch p {
	case TaxPending:
		return "pending"
	case TaxResolved:
		return "resolved"
	default:
		return "idle"
	}
}

type TaxOutcome int

const (
	TaxNoOutcome TaxOutcome = iota
	TaxAvoided
	TaxPaid
)

func (o TaxOutcome) String() string {
	switch o {
	case TaxAvoided:
		return "avoided"
	case TaxPaid:
		return "paid"
	default:
		return "none"
	}
}

const (
	taxMinDelayMs  = 60000
	taxDelaySpanMs = 300000 - 30000

	taxBaseRate   = 40
	taxRateSpan   = 40
	taxRateSkew   = 0.7
	taxClickRatio = 2.2

	taxBaseTimeMs    = 11000
	taxTimePerRateMs = 90
	taxMinTimeMs     = 5000

	// TaxCountdownStep is how much time one countdown tick removes.
	TaxCountdownStep = time.Second
	// AcknowledgeCooldown blocks a second acknowledgement right after one.
	AcknowledgeCooldown = 10 * time.Second
)

// TaxEvent is the state of the tax mini-game. Seq increases with every
// event so stale countdown ticks can be told apart from live ones.
type TaxEvent struct {
	Seq            uint64
	Phase          TaxPhase
	Rate           float64
	Amount         float64
	RequiredClicks int
	CurrentClicks  int
	TimeLimit      time.Duration
	TimeLeft       time.Duration
	Outcome        TaxOutcome
}

// NextTaxDelay draws the wait before the next tax event, in [60s, 330s).
func NextTaxDelay(rng Rand) time.Duration {
	return msDuration(rng.Float64()*taxDelaySpanMs + taxMinDelayMs)
}

// DrawTaxRate draws a percentage in [40, 80), skewed toward the low end.
func DrawTaxRate(rng Rand) float64 {
	return taxBaseRate + math.Pow(rng.Float64(), taxRateSkew)*taxRateSpan
}

// TaxTimeLimit is how long the player has to fight a tax of rate percent.
func TaxTimeLimit(rate float64) time.Duration {
	return msDuration(math.Max(taxBaseTimeMs-rate*taxTimePerRateMs, taxMinTimeMs))
}

// BeginTax opens a pending tax event against the given currency.
func BeginTax(seq uint64, currency, rate float64) TaxEvent {
	limit := TaxTimeLimit(rate)
	return TaxEvent{
		Seq:            seq,
		Phase:          TaxPending,
		Rate:           rate,
		Amount:         math.Floor(currency * rate / 100),
		RequiredClicks: int(math.Ceil(rate / taxClickRatio)),
		TimeLimit:      limit,
		TimeLeft:       limit,
	}
}

// Prevent counts one prevent click. It reports whether this click won.
func (t *TaxEvent) Prevent() bool {
	if t.Phase != TaxPending {
		return false
	}
	t.CurrentClicks = min(t.CurrentClicks+1, t.RequiredClicks)
	if t.CurrentClicks >= t.RequiredClicks {
		t.Phase = TaxResolved
		t.Outcome = TaxAvoided
		return true
	}
	return false
}

// Countdown removes step from the clock. It reports whether time ran out.
func (t *TaxEvent) Countdown(step time.Duration) bool {
	if t.Phase != TaxPending {
		return false
	}
	if t.TimeLeft > step {
		t.TimeLeft -= step
		return false
	}
	t.TimeLeft = 0
	t.Phase = TaxResolved
	if t.CurrentClicks >= t.RequiredClicks {
		t.Outcome = TaxAvoided
	} else {
		t.Outcome = TaxPaid
	}
	return true
}

// Settle closes a resolved event and returns the amount taken from s.
// The deduction is decided here, not at timeout, and is not clamped.
func (t *TaxEvent) Settle(s *models.EconomyState) float64 {
	var paid float64
	if t.CurrentClicks < t.RequiredClicks {
		paid = t.Amount
		s.Currency -= paid
	}
	*t = TaxEvent{Seq: t.Seq}
	return paid
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
