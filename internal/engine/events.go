package engine

import "github.com/Ozsumit/csf-pwa/internal/models"

type EventKind string

const (
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventItemActivated       EventKind = "item_activated"
	EventItemExpired         EventKind = "item_expired"
	EventTaxStarted          EventKind = "tax_started"
	EventTaxResolved         EventKind = "tax_resolved"
	EventTaxAcknowledged     EventKind = "tax_acknowledged"
	EventGameReset           EventKind = "game_reset"
)

// Event is a one-shot notification for the presentation layer. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Achievement models.Achievement
	Item        models.SpecialItemState
	Tax         TaxEvent
	Paid        float64
}

// Notifier receives events after the engine has released its lock, so it
// may call back into the engine.
type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

type discard struct{}

func (discard) Notify(Event) {}
